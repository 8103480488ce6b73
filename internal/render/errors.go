package render

import "errors"

var (
	// ErrRender is the single failure signal of GeneratePDF. Every error it
	// returns matches it with errors.Is.
	ErrRender = errors.New("failed to generate document")
	// ErrComposition marks failures turning a resume into HTML.
	ErrComposition = errors.New("composition failed")
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageCompose  Stage = "compose"
	StageAcquire  Stage = "acquire"
	StageLoad     Stage = "load"
	StagePrint    Stage = "print"
	StageValidate Stage = "validate"
)

// Error reports which stage of a render failed and why.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return "render " + string(e.Stage) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error { return []error{ErrRender, e.Err} }

func stageOf(err error) Stage {
	var re *Error
	if errors.As(err, &re) {
		return re.Stage
	}
	return ""
}
