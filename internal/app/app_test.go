package app

import (
	"testing"

	pkgapp "github.com/haierkeys/note-collab-service/pkg/app"

	"github.com/stretchr/testify/assert"
)

func TestApp_CheckVersion(t *testing.T) {
	a := &App{}

	// 没有缓存的发布信息时无更新
	got := a.CheckVersion("1.0.0")
	assert.False(t, got.VersionIsNew)
	assert.Empty(t, got.VersionNewName)

	a.SetCheckVersionInfo(pkgapp.CheckVersionInfo{VersionNewName: "v1.5.0"})

	tests := []struct {
		name          string
		clientVersion string
		wantNew       bool
	}{
		{"older client", "1.0.0", true},
		{"older client with v prefix", "v1.4.9", true},
		{"same version", "1.5.0", false},
		{"newer client", "2.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.CheckVersion(tt.clientVersion)
			assert.Equal(t, tt.wantNew, got.VersionIsNew)
			if tt.wantNew {
				// 返回的版本号不带 v 前缀，并补全下载链接
				assert.Equal(t, "1.5.0", got.VersionNewName)
				assert.Contains(t, got.VersionNewLink, "releases/tag/v1.5.0")
			} else {
				assert.Empty(t, got.VersionNewName)
			}
		})
	}
}

func TestApp_NewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, nil, nil)
	assert.Error(t, err)
}
