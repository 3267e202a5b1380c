package storage

import (
	"io"
	"os"
	"path"

	"context"

	"github.com/colinmarc/hdfs/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const hdfsRoot = "/pn_storage"

// FileStorage keeps pet owner and sitter attachments (avatars, profile
// images, vet documents) in HDFS, one directory per owning account.
type FileStorage struct {
	client *hdfs.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(hdfsURI string, logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {
	client, err := hdfs.New(hdfsURI)
	if err != nil {
		logger.Errorf("failed to connect to HDFS at %s: %s", hdfsURI, err)
		return nil, err
	}

	return &FileStorage{
		client: client,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (fs *FileStorage) Close() {
	fs.client.Close()
}

func (fs *FileStorage) CreateDirectoriesStart() error {
	if err := fs.client.MkdirAll(hdfsRoot, 0644); err != nil {
		fs.logger.Error(err)
		return err
	}
	return nil
}

func (fs *FileStorage) createDirectory(ownerID string) error {
	folderPath := path.Join(hdfsRoot, ownerID)
	if err := fs.client.MkdirAll(folderPath, 0644); err != nil {
		fs.logger.Errorf("error creating directory %s: %v", folderPath, err)
		return err
	}
	return nil
}

// SaveAttachment writes the attachment bytes under the owner's directory.
func (fs *FileStorage) SaveAttachment(ctx context.Context, ownerID, fileName string, content []byte) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.SaveAttachment")
	defer span.End()

	if err := fs.createDirectory(ownerID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	filePath := path.Join(hdfsRoot, ownerID, fileName)
	file, err := fs.client.Create(filePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("error creating file %s: %v", filePath, err)
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			span.SetStatus(codes.Error, closeErr.Error())
			fs.logger.Errorf("error closing file: %v", closeErr)
		}
	}()

	if _, err := file.Write(content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("error writing attachment content: %v", err)
		return err
	}
	return nil
}

// ListAttachments names every attachment stored for the owner.
func (fs *FileStorage) ListAttachments(ctx context.Context, ownerID string) ([]string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.ListAttachments")
	defer span.End()

	folderPath := path.Join(hdfsRoot, ownerID)
	var fileNames []string

	callbackFunc := func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileNames = append(fileNames, path.Base(filePath))
		}
		return nil
	}

	if err := fs.client.Walk(folderPath, callbackFunc); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Error(err)
		return nil, err
	}
	return fileNames, nil
}

// ReadAttachment returns the raw bytes of one stored attachment.
func (fs *FileStorage) ReadAttachment(ctx context.Context, ownerID, fileName string) ([]byte, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.ReadAttachment")
	defer span.End()

	filePath := path.Join(hdfsRoot, ownerID, fileName)
	file, err := fs.client.Open(filePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Error(err)
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Error(err)
		return nil, err
	}
	return content, nil
}

// DeleteAttachment removes one stored attachment; missing files are not an
// error.
func (fs *FileStorage) DeleteAttachment(ctx context.Context, ownerID, fileName string) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.DeleteAttachment")
	defer span.End()

	filePath := path.Join(hdfsRoot, ownerID, fileName)
	err := fs.client.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Error(err)
		return err
	}
	return nil
}
