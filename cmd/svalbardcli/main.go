package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ruteri/svalbard/metadatacodec"
	"github.com/ruteri/svalbard/secondarychannel/filechannel"
	"github.com/ruteri/svalbard/sharemanager"
	"github.com/ruteri/svalbard/svalbard"
	"github.com/urfave/cli/v2"
)

var flagSecretHex = &cli.StringFlag{
	Name:     "secret-hex",
	Required: true,
	Usage:    "hex-encoded secret value to share",
}
var flagSecretName = &cli.StringFlag{
	Name:     "secret-name",
	Required: true,
	Usage:    "name identifying this secret across all its shares",
}
var flagK = &cli.IntFlag{
	Name:     "k",
	Required: true,
	Usage:    "minimum number of shares required to recover the secret",
}
var flagLocations = &cli.StringSliceFlag{
	Name:     "location",
	Required: true,
	Usage:    "a custody server location, as 'https://host|ownerIDType|ownerID'; repeat once per share",
}
var flagChannelDir = &cli.StringFlag{
	Name:     "channel-dir",
	Required: true,
	Usage:    "directory backing the file-based secondary channel used to read back tokens",
}
var flagMetadataOut = &cli.StringFlag{
	Name:     "metadata-out",
	Required: true,
	Usage:    "file to write the hex-encoded sharing metadata to",
}
var flagMetadataIn = &cli.StringFlag{
	Name:     "metadata-in",
	Required: true,
	Usage:    "file holding the hex-encoded sharing metadata to recover",
}
var flagRequestID = &cli.StringFlag{
	Name:     "request-id",
	Required: true,
	Usage:    "request id to present to every custodian for this operation",
}

func main() {
	app := &cli.App{
		Name:  "svalbardcli",
		Usage: "share and recover secrets against a Svalbard custody server fleet",
		Commands: []*cli.Command{
			{
				Name:  "share_secret",
				Usage: "split a secret and store its shares",
				Flags: []cli.Flag{flagSecretHex, flagSecretName, flagK, flagLocations, flagChannelDir, flagMetadataOut},
				Action: func(cCtx *cli.Context) error {
					return shareSecret(cCtx)
				},
			},
			{
				Name:  "recover_secret",
				Usage: "retrieve and reconstruct a secret from its sharing metadata",
				Flags: []cli.Flag{flagMetadataIn, flagRequestID, flagChannelDir},
				Action: func(cCtx *cli.Context) error {
					return recoverSecret(cCtx)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		log.Fatal(err)
	}
}

func newClient(channelDir string) *svalbard.Client {
	channel := filechannel.NewChannel(channelDir)
	managers := sharemanager.NewRegistry(sharemanager.NewServerManager(nil, channel), nil, nil)
	return svalbard.NewClient(managers)
}

// parseLocation turns "https://host|ownerIDType|ownerID" into a
// svalbard.ShareLocation addressing a custody server.
func parseLocation(raw string) (svalbard.ShareLocation, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 3 {
		return svalbard.ShareLocation{}, fmt.Errorf("invalid --location %q: expected 'url|ownerIDType|ownerID'", raw)
	}
	return svalbard.ShareLocation{
		Type:        svalbard.LocationServer,
		Name:        parts[0],
		OwnerIDType: parts[1],
		OwnerID:     parts[2],
	}, nil
}

func shareSecret(cCtx *cli.Context) error {
	secret, err := hex.DecodeString(cCtx.String(flagSecretHex.Name))
	if err != nil {
		return fmt.Errorf("invalid --secret-hex: %w", err)
	}

	rawLocations := cCtx.StringSlice(flagLocations.Name)
	locations := make([]svalbard.ShareLocation, len(rawLocations))
	for i, raw := range rawLocations {
		loc, err := parseLocation(raw)
		if err != nil {
			return err
		}
		locations[i] = loc
	}

	client := newClient(cCtx.String(flagChannelDir.Name))
	result, err := client.Share(context.Background(), cCtx.String(flagSecretName.Name), secret, locations, cCtx.Int(flagK.Name))
	if err != nil {
		return fmt.Errorf("sharing failed: %w", err)
	}

	encoded, err := metadatacodec.Encode(result.Metadata)
	if err != nil {
		return fmt.Errorf("could not encode sharing metadata: %w", err)
	}
	if err := os.WriteFile(cCtx.String(flagMetadataOut.Name), []byte(hex.EncodeToString(encoded)), 0o600); err != nil {
		return fmt.Errorf("could not write metadata file: %w", err)
	}

	stored := len(locations) - len(result.Failed)
	fmt.Printf("Stored %d shares\n", stored)
	for _, f := range result.Failed {
		fmt.Printf("share at %s could not be stored\n", f.Location.Name)
	}
	if len(result.Failed) > 0 {
		return errors.New("one or more shares failed to store; see metadata file to retry them out of band")
	}
	return nil
}

func recoverSecret(cCtx *cli.Context) error {
	raw, err := os.ReadFile(cCtx.String(flagMetadataIn.Name))
	if err != nil {
		return fmt.Errorf("could not read metadata file: %w", err)
	}
	encoded, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("invalid metadata file: %w", err)
	}
	metadata, err := metadatacodec.Decode(encoded)
	if err != nil {
		return fmt.Errorf("malformed sharing metadata: %w", err)
	}

	client := newClient(cCtx.String(flagChannelDir.Name))
	result, err := client.Recover(context.Background(), metadata, cCtx.String(flagRequestID.Name))
	if err != nil {
		if errors.Is(err, svalbard.ErrInsufficientShares) {
			fmt.Println("too few shares recovered to reconstruct the secret")
		}
		for _, s := range result.Shares {
			if s.Err != nil {
				fmt.Printf("share at %s: %s\n", s.Metadata.Location.Name, s.Err)
			}
		}
		return fmt.Errorf("recovery failed: %w", err)
	}

	recovered := 0
	for _, s := range result.Shares {
		if s.Err == nil {
			recovered++
		} else {
			fmt.Printf("share at %s: %s\n", s.Metadata.Location.Name, s.Err)
		}
	}
	fmt.Printf("Recovered using %d shares\n", recovered)
	fmt.Println(hex.EncodeToString(result.Secret))
	return nil
}
