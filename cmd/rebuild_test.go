package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plugdroid.dev/pkg/plugdroid/internal/domain"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

func TestRebuildCmd(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newRebuildCmd())

	mockWorkflow.EXPECT().Rebuild(mock.Anything, domain.RebuildArgs{
		Project:     m.Path(testProject),
		PackageName: "org.example",
	}).Return(nil)

	cmd.SetArgs([]string{"rebuild", "--project", testProject, "--package", "org.example"})

	require.NoError(t, cmd.Execute())
}

func TestRebuildCmd_Error(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newRebuildCmd())

	mockWorkflow.EXPECT().Rebuild(mock.Anything, mock.Anything).Return(errors.New("io error"))

	cmd.SetArgs([]string{"rebuild", "--project", testProject})

	require.Error(t, cmd.Execute())
}
