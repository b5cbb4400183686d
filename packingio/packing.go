// Package packingio reads and writes the on-disk artifacts an lsjam
// generation run produces: the binary particle snapshot
// (packing.xyzd), the diameters list, the ASCII generation
// configuration, and the human-readable run summary. None of this is
// part of the simulation core (spec.md §1 scopes file formats out of
// the engine itself); it exists so a full run can be driven end to
// end from the command line.
package packingio

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vbaranau/lsjam"
)

// magic identifies an lsjam binary packing file. packing.xyzd files
// open with this 8-byte tag before any particle data.
var magic = [8]byte{'l', 's', 'j', 'a', 'm', 'x', 'y', 'z'}

// WritePacking serializes box size, diameter ratio, and every
// particle's nominal diameter and position, little-endian, to path.
// If an existing file is present at path it is first renamed by
// inserting ".prev" before its extension (packing.xyzd becomes
// packing.prev.xyzd) so a crashed write never destroys the last good
// snapshot.
func WritePacking(path string, box lsjam.Box, diameterRatio float64, particles []lsjam.Particle) error {
	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(path)
		backup := strings.TrimSuffix(path, ext) + ".prev" + ext
		if err := os.Rename(path, backup); err != nil {
			return &lsjam.IOError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := &errWriter{w: f}
	w.write(magic[:])
	w.writeFloat64(box.Size.X())
	w.writeFloat64(box.Size.Y())
	w.writeFloat64(box.Size.Z())
	w.writeFloat64(diameterRatio)
	w.writeUint64(uint64(len(particles)))
	for _, p := range particles {
		w.writeFloat64(p.Diameter)
		w.writeFloat64(p.Position.X())
		w.writeFloat64(p.Position.Y())
		w.writeFloat64(p.Position.Z())
	}
	if w.err != nil {
		return &lsjam.IOError{Path: path, Err: w.err}
	}
	return nil
}

// ReadPacking is the inverse of WritePacking.
func ReadPacking(path string) (lsjam.Box, float64, []lsjam.Particle, error) {
	f, err := os.Open(path)
	if err != nil {
		return lsjam.Box{}, 0, nil, &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	r := &errReader{r: f}
	var tag [8]byte
	r.read(tag[:])
	if r.err == nil && tag != magic {
		return lsjam.Box{}, 0, nil, &lsjam.IOError{Path: path, Err: io.ErrUnexpectedEOF}
	}

	sx := r.readFloat64()
	sy := r.readFloat64()
	sz := r.readFloat64()
	diameterRatio := r.readFloat64()
	n := r.readUint64()

	box := lsjam.NewBox(mgl64.Vec3{sx, sy, sz})

	particles := make([]lsjam.Particle, n)
	for i := range particles {
		d := r.readFloat64()
		x := r.readFloat64()
		y := r.readFloat64()
		z := r.readFloat64()
		particles[i] = lsjam.Particle{Diameter: d, Position: mgl64.Vec3{x, y, z}}
	}
	if r.err != nil {
		return lsjam.Box{}, 0, nil, &lsjam.IOError{Path: path, Err: r.err}
	}
	return box, diameterRatio, particles, nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *errWriter) writeFloat64(v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.write(buf[:])
}

func (w *errWriter) writeUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.write(buf[:])
}

type errReader struct {
	r   io.Reader
	err error
}

func (r *errReader) read(b []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.r, b)
}

func (r *errReader) readFloat64() float64 {
	var buf [8]byte
	r.read(buf[:])
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
}

func (r *errReader) readUint64() uint64 {
	var buf [8]byte
	r.read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}
