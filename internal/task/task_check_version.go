package task

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/note-collab-service/internal/app"
	pkgapp "github.com/haierkeys/note-collab-service/pkg/app"

	"github.com/bytedance/sonic"
	"golang.org/x/mod/semver"
)

const (
	// ServiceVersionURL 服务端最新发布版本查询地址
	ServiceVersionURL = "https://img.shields.io/github/v/release/haierkeys/note-collab-service.json"
)

// ShieldsJSON shields.io 徽章响应
type ShieldsJSON struct {
	Message string `json:"message"`
}

// CheckVersionTask 定期检查服务端是否有新版本发布
type CheckVersionTask struct {
	app *app.App
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return &CheckVersionTask{
			app: appContainer,
		}, nil
	})
}

func (t *CheckVersionTask) Name() string {
	return "check_version"
}

func (t *CheckVersionTask) Run(ctx context.Context) error {
	serviceLatest, err := t.fetchVersion(ctx, ServiceVersionURL)
	if err != nil {
		return err
	}

	currentVersion := t.app.Version().Version
	if !strings.HasPrefix(currentVersion, "v") {
		currentVersion = "v" + currentVersion
	}
	if !strings.HasPrefix(serviceLatest, "v") {
		serviceLatest = "v" + serviceLatest
	}

	t.app.SetCheckVersionInfo(pkgapp.CheckVersionInfo{
		VersionNewName: serviceLatest,
		VersionIsNew:   semver.Compare(serviceLatest, currentVersion) > 0,
	})

	return nil
}

func (t *CheckVersionTask) fetchVersion(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var sj ShieldsJSON
	if err := sonic.Unmarshal(body, &sj); err != nil {
		return "", err
	}

	return sj.Message, nil
}

func (t *CheckVersionTask) LoopInterval() time.Duration {
	return 30 * time.Minute
}

func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}
