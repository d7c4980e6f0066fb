package parser

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestScanLogsRecoveredPanic(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New("debug", buf, logging.WithFormat(logging.FormatJSON)))

	// nil content makes the first record panic
	scan(nil, "===通讯录\n张三|||138****0000|||朋友|||备注")

	gt.S(t, buf.String()).Contains("recovered from panic while parsing phone content")
	gt.S(t, buf.String()).Contains("nil pointer")
}
