package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Error())

	d.AddInfo(CodeConstructorTie, "NewA and NewB take 1 parameter", "cms.A", "")
	d.AddWarning(CodeUnsupportedType, "chan int is opaque", "cms.Pipe", "pipe.go:12:6")

	var other Diagnostics
	other.AddError(CodeUnknownType, "unknown type Foo", "Node", "types[0].base")
	d.Merge(other)

	require.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, SeverityError, d.All()[0].Severity)
	assert.Len(t, d.ByCode(CodeUnsupportedType), 1)
	assert.Empty(t, d.ByCode(CodeCycle))

	assert.EqualError(t, d.Error(), "types[0].base [Node]: [UNKNOWN_TYPE] unknown type Foo")
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, "[X] coded", Diagnostic{Code: "X", Message: "coded"}.String())
	assert.Equal(t, "[cms.A]: [X] typed", Diagnostic{Code: "X", Message: "typed", Type: "cms.A"}.String())
}
