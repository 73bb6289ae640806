package cg14

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const currentSnapshotVersion = 1

const infoString = "cg14 snapshot"

// Snapshot errors
var (
	ErrSnapshotVersion  = errors.New("cg14: snapshot is from a newer version")
	ErrSnapshotMismatch = errors.New("cg14: snapshot does not fit this board")
)

type snapshot struct {
	Version int
	Info    string
	State   json.RawMessage
}

// MakeSnapshot captures the board state: registers, tables and vram
func (d *Device) MakeSnapshot() ([]byte, error) {
	stateJSON, err := json.Marshal(&d.st)
	if err != nil {
		return nil, err
	}
	snapJSON, err := json.Marshal(&snapshot{
		Version: currentSnapshotVersion,
		Info:    infoString,
		State:   json.RawMessage(stateJSON),
	})
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := gzip.NewWriter(buf)
	if _, err := writer.Write(snapJSON); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadSnapshot replaces the board state with a snapshot's. The surface,
// config and log stay the caller's. The surface is resized to the
// snapshot geometry and the next Refresh repaints.
func (d *Device) LoadSnapshot(snapBytes []byte) error {
	var snap snapshot
	reader, err := gzip.NewReader(bytes.NewReader(snapBytes))
	if err != nil {
		return err
	}
	unpackedBytes, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(unpackedBytes, &snap); err != nil {
		return err
	}
	if snap.Version > currentSnapshotVersion {
		return fmt.Errorf("%w: version %d", ErrSnapshotVersion, snap.Version)
	}
	if snap.Version < currentSnapshotVersion {
		return fmt.Errorf("unknown snapshot version: %v", snap.Version)
	}

	var newState devState
	if err = json.Unmarshal(snap.State, &newState); err != nil {
		return err
	}
	if uint32(len(newState.VRAM)) != d.cfg.VRAMSize || newState.VRAMMask != d.st.VRAMMask {
		return fmt.Errorf("%w: vram is %d bytes, board has %d", ErrSnapshotMismatch, len(newState.VRAM), d.cfg.VRAMSize)
	}
	if newState.Width < 0 || newState.Height < 0 || newState.Width > maxWidth || newState.Height > maxHeight {
		return fmt.Errorf("%w: geometry %dx%d", ErrSnapshotMismatch, newState.Width, newState.Height)
	}

	d.st = newState
	d.surface.Resize(d.st.Width, d.st.Height)
	d.st.Dirty = true
	return nil
}
