package tex2html

// ProgressReporter receives fire-and-forget progress updates during a
// document-processing run. Implementations must not block.
type ProgressReporter interface {
	SetLoading(message string, percent int)
}

// noopProgress is the default reporter.
type noopProgress struct{}

func (noopProgress) SetLoading(string, int) {}

// EquationCounter is the equation-numbering collaborator. The default is a
// no-op; a renderer integration (e.g. MathJax) can supply a real one to keep
// equation numbers continuous across chunks.
type EquationCounter interface {
	// ResetCounter restarts numbering at the top of a run.
	ResetCounter()
	// RegisterSourceEnvironments records the numbered environments present in
	// the source and returns how many were found.
	RegisterSourceEnvironments(latex string) int
	// RestoreWrappers reinstates environment wrapper markup in combined HTML.
	RestoreWrappers(html string) string
}

// noopEquations is the default equation counter.
type noopEquations struct{}

func (noopEquations) ResetCounter() {}

func (noopEquations) RegisterSourceEnvironments(string) int { return 0 }

func (noopEquations) RestoreWrappers(html string) string { return html }
