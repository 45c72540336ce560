package camfs_test

import (
	"testing"

	"github.com/sagarc03/camfs"
	"github.com/stretchr/testify/assert"
)

func TestMode_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		mode  camfs.Mode
		valid bool
	}{
		{name: "client mode is valid", mode: camfs.ModeClient, valid: true},
		{name: "access point mode is valid", mode: camfs.ModeAccessPoint, valid: true},
		{name: "empty mode is invalid", mode: "", valid: false},
		{name: "random string is invalid", mode: "station", valid: false},
		{name: "uppercase mode is invalid", mode: "CLIENT", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.mode.IsValid())
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := camfs.ParseMode("access-point")
	assert.NoError(t, err)
	assert.Equal(t, camfs.ModeAccessPoint, mode)

	_, err = camfs.ParseMode("ap")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wifi mode")
}

func TestFileEntry_Name(t *testing.T) {
	assert.Equal(t, "capture.jpg", camfs.FileEntry{Path: "/capture.jpg"}.Name())
	assert.Equal(t, "day1/a.jpg", camfs.FileEntry{Path: "/day1/a.jpg"}.Name())
}

func TestTables_Validate(t *testing.T) {
	assert.NoError(t, camfs.Tables{Files: "flash_files"}.Validate())
	assert.Error(t, camfs.Tables{}.Validate())
	assert.Error(t, camfs.Tables{Files: "Flash-Files"}.Validate())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "connected", camfs.StatusConnected.String())
	assert.Equal(t, "disconnected", camfs.StatusDisconnected.String())
}
