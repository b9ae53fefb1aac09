package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileID_ProjectPath(t *testing.T) {
	tests := []struct {
		file FileID
		want string
	}{
		{"AndroidManifest.xml", "app/src/main/AndroidManifest.xml"},
		{"/AndroidManifest.xml", "app/src/main/AndroidManifest.xml"},
		{"config.xml", "app/src/main/res/xml/config.xml"},
		{"res/xml/config.xml", "app/src/main/res/xml/config.xml"},
		{"res/values/strings.xml", "app/src/main/res/values/strings.xml"},
		{`res\values\colors.xml`, "app/src/main/res/values/colors.xml"},
		{"app/build.gradle.xml", "app/build.gradle.xml"},
		{"./settings.xml", "settings.xml"},
	}

	for _, tt := range tests {
		t.Run(string(tt.file), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.file.ProjectPath())
		})
	}
}

func TestFileID_Validate(t *testing.T) {
	for _, file := range []FileID{"AndroidManifest.xml", "res/values/strings.xml", "/config.xml", "app/../settings.xml"} {
		assert.NoError(t, file.Validate(), file)
	}

	for _, file := range []FileID{"../x.xml", "../../x.xml", "res/../../x.xml", "..", "."} {
		assert.Error(t, file.Validate(), file)
	}
}

func TestBindings_Clone(t *testing.T) {
	original := Bindings{"A": "1"}
	clone := original.Clone()
	clone["A"] = "2"
	clone["B"] = "3"

	assert.Equal(t, Bindings{"A": "1"}, original)

	var empty Bindings
	assert.NotNil(t, empty.Clone())
}
