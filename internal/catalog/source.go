package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/klauspost/compress/gzip"
)

// BlobScheme prefixes catalog references stored in Azure Blob Storage,
// e.g. "azblob://catalogs/models.yaml".
const BlobScheme = "azblob://"

// Source is a readable catalog document.
type Source interface {
	// Name identifies the document. Its extension selects the decoder.
	Name() string
	// Open returns the decompressed document contents.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a catalog document from the local filesystem. Paths
// ending in ".gz" are decompressed transparently.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Open opens the file.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	return maybeGunzip(s.Path, f)
}

// BlobDownloader is the subset of the azblob client used by BlobSource.
type BlobDownloader interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// BlobSource reads a catalog document from an Azure Blob Storage container.
type BlobSource struct {
	Client    BlobDownloader
	Container string
	Blob      string
}

// NewBlobSource creates a source for container/blob in the storage account
// at accountURL. A nil credential uses the default Azure credential chain.
func NewBlobSource(accountURL, container, blob string, cred azcore.TokenCredential) (*BlobSource, error) {
	if accountURL == "" {
		return nil, errors.New("blob account URL is required")
	}
	if cred == nil {
		var err error
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("creating azure credential: %w", err)
		}
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return &BlobSource{Client: client, Container: container, Blob: blob}, nil
}

// Name returns the azblob:// reference of the blob.
func (s *BlobSource) Name() string {
	return BlobScheme + s.Container + "/" + s.Blob
}

// Open downloads the blob.
func (s *BlobSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.Client.DownloadStream(ctx, s.Container, s.Blob, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", s.Name(), err)
	}
	return maybeGunzip(s.Blob, resp.Body)
}

// ParseBlobRef splits "azblob://container/path/to/blob" into its container
// and blob name.
func ParseBlobRef(ref string) (container, blob string, err error) {
	rest, ok := strings.CutPrefix(ref, BlobScheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not an %s reference", ref, BlobScheme)
	}
	container, blob, ok = strings.Cut(rest, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("%q must have the form %scontainer/blob", ref, BlobScheme)
	}
	return container, blob, nil
}

// OpenRef resolves a catalog reference to a Source. References starting
// with azblob:// are read from the storage account at accountURL; anything
// else is a local path.
func OpenRef(ref, accountURL string) (Source, error) {
	if !strings.HasPrefix(ref, BlobScheme) {
		return FileSource{Path: ref}, nil
	}
	container, blob, err := ParseBlobRef(ref)
	if err != nil {
		return nil, err
	}
	return NewBlobSource(accountURL, container, blob, nil)
}

// format returns the document format implied by name, ignoring a trailing
// ".gz".
func format(name string) string {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	if path.Ext(name) == ".json" {
		return "json"
	}
	return "yaml"
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.underlying.Close())
}

func maybeGunzip(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return rc, nil
	}
	zr, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close() //nolint:errcheck
		return nil, fmt.Errorf("reading gzip %s: %w", name, err)
	}
	return gzipReadCloser{Reader: zr, underlying: rc}, nil
}
