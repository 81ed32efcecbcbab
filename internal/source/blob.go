package source

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStore downloads blobs by container and name.
type BlobStore interface {
	Download(ctx context.Context, container, blob string) ([]byte, error)
}

type azureBlobStore struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureBlobStore connects to the blob service of an Azure storage account
// using a shared key.
func NewAzureBlobStore(accountName, accountKey string, maxBytes int64) (BlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &azureBlobStore{client: client, maxBytes: maxBytes}, nil
}

func (s *azureBlobStore) Download(ctx context.Context, container, blob string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	return readLimited(resp.Body, s.maxBytes)
}
