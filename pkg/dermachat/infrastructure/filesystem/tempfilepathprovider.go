package filesystem

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

type TempFilePathProvider struct {
	tempDirectoryPath string
}

func NewTempFilePathProvider(config *common.Config) *TempFilePathProvider {
	return &TempFilePathProvider{
		tempDirectoryPath: config.GetStringOrDefault(domain.ConfigKeyTempDirectory, os.TempDir()),
	}
}

// GetUniqueTempFilePath returns a path no other caller gets, ending in `suffix` (e.g. ".jpg").
func (t *TempFilePathProvider) GetUniqueTempFilePath(prefix, suffix string) string {
	return filepath.Join(t.tempDirectoryPath, prefix+uuid.NewString()+suffix)
}
