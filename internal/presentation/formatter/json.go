package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

// Format writes a single report as an object and several as an array. Map keys are
// sorted so output is stable across runs.
func (f *JSONFormatter) Format(reports []Report) error {
	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}

	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
