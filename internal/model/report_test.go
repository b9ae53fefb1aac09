package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationReport(t *testing.T) {
	report := &OperationReport{Files: []FileReport{
		{File: "a.xml", Status: FileModified},
		{File: "b.xml", Status: FileUnchanged},
		{File: "c.xml", Status: FileFailed},
	}}

	assert.Equal(t, []FileID{"a.xml"}, report.Modified())
	assert.Equal(t, []FileID{"c.xml"}, report.FailedFiles())
	assert.True(t, report.Changed())

	report.DryRun = true
	assert.False(t, report.Changed())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "munges-computed", MungesComputed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", OpState(42).String())
	assert.Equal(t, "modified", FileModified.String())
	assert.Equal(t, "unknown", FileStatus(9).String())
}
