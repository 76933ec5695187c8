package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, rendering *model.Rendering) error {
	data, err := sonic.ConfigStd.MarshalIndent(rendering, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
