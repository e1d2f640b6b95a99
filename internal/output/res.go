package output

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	codec "github.com/alacrity-engine/resource-codec"
	bolt "go.etcd.io/bbolt"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/naming"
	"github.com/ivlev/anim2c/internal/timing"
)

// Bucket names of the resource file.
var (
	animationsBucket = []byte("animations")
	tagsBucket       = []byte("tags")
	sheetsBucket     = []byte("sheets")
)

var ErrCorruptSchedule = errors.New("corrupt schedule record")

// ResourceEmitter packs schedules into a bbolt resource file:
//
//	animations: "<sheet>/<tag>" -> encoded schedule
//	tags:       "<sheet>"       -> tag names in enumeration order
//	sheets:     "<sheet>"       -> sheet image name
type ResourceEmitter struct {
	Path string
	db   *bolt.DB
}

func NewResourceEmitter(path string) (*ResourceEmitter, error) {
	db, err := bolt.Open(path, 0666, nil)
	if err != nil {
		return nil, fmt.Errorf("open resource file %s: %w", path, err)
	}
	return &ResourceEmitter{Path: path, db: db}, nil
}

func (e *ResourceEmitter) Format() string { return "res" }

// Emit replaces every record of the sheet in one transaction.
func (e *ResourceEmitter) Emit(ctx context.Context, m *animation.Model) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet := naming.Identifier(m.Name)
	names := m.TagNames()

	tagData, err := codec.EncodeTag(names)
	if err != nil {
		return nil, fmt.Errorf("encode tags of %s: %w", sheet, err)
	}

	err = e.db.Update(func(tx *bolt.Tx) error {
		animBucket, err := tx.CreateBucketIfNotExists(animationsBucket)
		if err != nil {
			return err
		}
		tagBucket, err := tx.CreateBucketIfNotExists(tagsBucket)
		if err != nil {
			return err
		}
		sheetBucket, err := tx.CreateBucketIfNotExists(sheetsBucket)
		if err != nil {
			return err
		}

		// Drop records left over from a previous run of this sheet.
		prefix := []byte(sheet + "/")
		var stale [][]byte
		c := animBucket.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := animBucket.Delete(k); err != nil {
				return err
			}
		}

		for _, a := range m.Animations {
			key := ResourceKey(m.Name, a.Tag.Name)
			if err := animBucket.Put([]byte(key), EncodeSchedule(a.Schedule)); err != nil {
				return err
			}
		}

		if err := tagBucket.Put([]byte(sheet), tagData); err != nil {
			return err
		}
		return sheetBucket.Put([]byte(sheet), []byte(m.Image))
	})
	if err != nil {
		return nil, fmt.Errorf("write %s to %s: %w", sheet, e.Path, err)
	}

	return []string{e.Path}, nil
}

func (e *ResourceEmitter) Close() error {
	return e.db.Close()
}

// ReadSchedule loads one schedule back from an open resource file
func (e *ResourceEmitter) ReadSchedule(sheet, tag string) (timing.Schedule, error) {
	var s timing.Schedule

	err := e.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(animationsBucket)
		if buck == nil {
			return fmt.Errorf("the animations bucket not found")
		}

		data := buck.Get([]byte(ResourceKey(sheet, tag)))
		if data == nil {
			return fmt.Errorf("animation '%s' not found", ResourceKey(sheet, tag))
		}

		var err error
		s, err = DecodeSchedule(data)
		return err
	})

	return s, err
}

// ResourceKey is the key of a tag's schedule in the animations bucket
func ResourceKey(sheet, tag string) string {
	return naming.Identifier(sheet) + "/" + tag
}

// EncodeSchedule lays a schedule out as little-endian uint32 words:
// total ticks, entry count, then tile and boundary of each entry.
func EncodeSchedule(s timing.Schedule) []byte {
	buf := make([]byte, 8+8*len(s.Entries))
	binary.LittleEndian.PutUint32(buf[0:], uint32(s.TotalTicks))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(s.Entries)))

	off := 8
	for _, en := range s.Entries {
		binary.LittleEndian.PutUint32(buf[off:], uint32(en.Tile))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(en.Boundary))
		off += 8
	}
	return buf
}

func DecodeSchedule(data []byte) (timing.Schedule, error) {
	if len(data) < 8 {
		return timing.Schedule{}, ErrCorruptSchedule
	}

	total := binary.LittleEndian.Uint32(data[0:])
	count := binary.LittleEndian.Uint32(data[4:])
	if uint64(len(data)) != 8+8*uint64(count) {
		return timing.Schedule{}, ErrCorruptSchedule
	}

	s := timing.Schedule{
		TotalTicks: int(total),
		Entries:    make([]timing.Entry, count),
	}
	for i := range s.Entries {
		off := 8 + 8*i
		s.Entries[i] = timing.Entry{
			Tile:     int(binary.LittleEndian.Uint32(data[off:])),
			Boundary: int(binary.LittleEndian.Uint32(data[off+4:])),
		}
	}
	return s, nil
}
