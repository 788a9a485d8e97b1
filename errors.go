package autodoc

import "fmt"

// 生成步骤
const (
	StepOutput     = "output"
	StepDiagram    = "diagram"
	StepImage      = "image"
	StepReport     = "report"
	StepPDF        = "pdf"
	StepScreenshot = "screenshot"
	StepPublish    = "publish"
)

// StepError 表示某个生成步骤的错误
type StepError struct {
	Step string `json:"step"`
	Err  error  `json:"-"`
}

// Error 实现error接口
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap 返回底层错误
func (e *StepError) Unwrap() error {
	return e.Err
}

// stepError 创建步骤错误
func stepError(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}
