package scene

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/log"
	"github.com/achilleasa/go-daylight/material"
)

const (
	dataFile = "scene.bin"
)

var ErrUnsupportedFormat = errors.New("scene: unsupported archive format")

func init() {
	gob.Register(&geometry.Sphere{})
	gob.Register(&geometry.Triangle{})
	gob.Register(&geometry.Cylinder{})
	gob.Register(&geometry.DistantSource{})

	gob.Register(&material.Plastic{})
	gob.Register(&material.Metal{})
	gob.Register(&material.Mirror{})
	gob.Register(&material.Dielectric{})
	gob.Register(&material.Glass{})
	gob.Register(&material.Light{})
}

// The serialized scene contents. Objects are stored in insertion order; the
// BVH is rebuilt after loading.
type archive struct {
	Materials     []material.Material
	Objects       []Object
	DistantLights []Object
}

// Write the scene objects and materials as a gob stream inside a zip archive.
func WriteArchive(w io.Writer, sc *Scene) error {
	logger := log.New("zip writer")
	start := time.Now()

	zw := zip.NewWriter(w)
	cw, err := zw.Create(dataFile)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(cw).Encode(archive{
		Materials:     sc.Materials,
		Objects:       sc.Objects,
		DistantLights: sc.DistantLights,
	})
	if err != nil {
		return fmt.Errorf("scene: failed to encode scene: %w", err)
	}
	if err = zw.Close(); err != nil {
		return err
	}

	logger.Infof("compressed scene in %d ms", time.Since(start).Milliseconds())
	return nil
}

// Read a scene written by WriteArchive. The returned scene is not built.
func ReadArchive(r io.Reader) (*Scene, error) {
	logger := log.New("zip reader")
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var contents *archive
	for _, f := range zr.File {
		if f.Name != dataFile {
			logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		contents = &archive{}
		err = gob.NewDecoder(rc).Decode(contents)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("scene: failed to load %s: %w", f.Name, err)
		}
	}
	if contents == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrUnsupportedFormat, dataFile)
	}

	// replay through the public API so that indices get validated
	sc := New()
	for _, m := range contents.Materials {
		sc.PushMaterial(m)
	}
	for _, list := range [][]Object{contents.Objects, contents.DistantLights} {
		for _, obj := range list {
			if _, err = sc.PushObject(obj.Primitive, obj.Front, obj.Back); err != nil {
				return nil, err
			}
		}
	}

	logger.Noticef("loaded scene in %d ms", time.Since(start).Milliseconds())
	return sc, nil
}
