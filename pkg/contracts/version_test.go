package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildTime)
}

func TestGetVersionInfo_LinkerValuesWin(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	GitCommit = "0123456789abcdef0123"
	assert.Equal(t, "0123456789abcdef0123", GetVersionInfo().GitCommit)
	assert.Contains(t, GetFullVersionString(), "commit 0123456789ab")
}

func TestGetFullVersionString(t *testing.T) {
	full := GetFullVersionString()
	assert.True(t, strings.HasPrefix(full, "kscompare v"+Version))
	assert.Contains(t, full, runtime.GOOS+"/"+runtime.GOARCH)
}
