// Package filechannel implements svalbard.SecondaryChannel by appending
// token messages to a per-owner file. It stands in for a real
// out-of-band channel (SMS, a phone call, a push notification) in tests
// and local development, where a file is easy to tail and assert on.
package filechannel

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruteri/svalbard/svalbard"
)

// Channel delivers messages by appending a line to
// "<rootDir>/<ownerID>_secondary_channel.txt". It only recognizes the
// "FILE" owner id type, compared case-insensitively.
type Channel struct {
	rootDir string
}

// NewChannel returns a Channel rooted at rootDir, which must already
// exist.
func NewChannel(rootDir string) *Channel {
	return &Channel{rootDir: rootDir}
}

func openFile(dir, ownerID string) (*os.File, error) {
	filename := filepath.Join(dir, ownerID+"_secondary_channel.txt")
	return os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Send implements svalbard.SecondaryChannel.
func (c *Channel) Send(_ context.Context, recipient svalbard.RecipientID, data svalbard.TokenMsgData) (err error) {
	if strings.ToUpper(recipient.IDType) != "FILE" {
		return svalbard.ErrUnsupportedOwnerIDType
	}
	msg, err := svalbard.GetMsgWithToken(data)
	if err != nil {
		return err
	}
	f, err := openFile(c.rootDir, recipient.ID)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()
	_, err = fmt.Fprintf(f, "%s\n", msg)
	return err
}

// ReadToken implements svalbard.TokenReader, the client side of Send: it
// scans the recipient's file for the line carrying requestID and returns
// the token that follows it.
func (c *Channel) ReadToken(_ context.Context, recipient svalbard.RecipientID, requestID string) (string, error) {
	if strings.ToUpper(recipient.IDType) != "FILE" {
		return "", svalbard.ErrUnsupportedOwnerIDType
	}
	filename := filepath.Join(c.rootDir, recipient.ID+"_secondary_channel.txt")
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		data, err := svalbard.ParseMsgWithToken(scanner.Text())
		if err != nil {
			continue
		}
		if data.RequestID == requestID {
			return data.Token, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", svalbard.ErrTokenNotFound
}
