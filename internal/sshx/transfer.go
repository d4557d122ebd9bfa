package sshx

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/sftp"
)

// uploadChunkSize is the buffer size for streaming file content.
const uploadChunkSize = 32 * 1024

// Upload streams a local file to the remote path with mode 0644 over the
// SFTP subsystem. Any I/O error on either side aborts the transfer and is
// returned as *TransferError.
//
// Parameters:
//   - localPath: The local file to send
//   - remotePath: The destination path on the remote host
//
// Returns:
//   - error: *TransferError on failure
func (c *Client) Upload(localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return &TransferError{Local: localPath, Remote: remotePath, Err: err}
	}
	defer src.Close()

	sftpClient, err := sftp.NewClient(c.conn)
	if err != nil {
		return &TransferError{
			Local:  localPath,
			Remote: remotePath,
			Err:    fmt.Errorf("failed to open sftp subsystem: %w", err),
		}
	}
	defer sftpClient.Close()

	dst, err := sftpClient.Create(remotePath)
	if err != nil {
		return &TransferError{Local: localPath, Remote: remotePath, Err: err}
	}

	buf := make([]byte, uploadChunkSize)
	written, err := io.CopyBuffer(dst, src, buf)
	if err != nil {
		dst.Close()
		return &TransferError{Local: localPath, Remote: remotePath, Err: err}
	}

	// A dirty close means the remote side did not flush everything.
	if err := dst.Close(); err != nil {
		return &TransferError{Local: localPath, Remote: remotePath, Err: err}
	}

	if err := sftpClient.Chmod(remotePath, 0o644); err != nil {
		return &TransferError{Local: localPath, Remote: remotePath, Err: err}
	}

	log.Debug("file uploaded", "remote", remotePath, "bytes", written)
	return nil
}
