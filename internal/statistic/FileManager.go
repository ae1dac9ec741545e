package statistic

import (
	"context"
	"fmt"
	"os"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/services"
	"playtrack/internal/statistic/interfaces"

	json "github.com/goccy/go-json"
)

type FileManager struct {
	backup     services.BackupServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, backup services.BackupServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		backup:     backup,
		logger:     logger,
	}
}

// SaveToFile writes a compressed dump of the store via a temp file and rename.
func (f *FileManager) SaveToFile(ctx context.Context, fileName string) error {
	storage, err := f.backup.Export(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a dump into an empty store. A missing file is not an error.
func (f *FileManager) LoadFromFile(ctx context.Context, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	if storage.Version != models.StorageVersion {
		return fmt.Errorf("unsupported backup version %d", storage.Version)
	}

	imported, err := f.backup.Import(ctx, &storage)
	if err != nil {
		return err
	}
	if imported {
		f.logger.Infof(providers.TypeApp, "Restored %d items, %d snapshots and %d summaries from %s",
			len(storage.Items), len(storage.Snapshots), len(storage.Summaries), fileName)
	}
	return nil
}
