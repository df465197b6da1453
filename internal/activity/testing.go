package activity

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/tormoder/fit"
)

// TestActivity describes a synthetic recording for EncodeTestFIT.
// This is only intended for use in tests.
type TestActivity struct {
	Start      time.Time
	Step       time.Duration // spacing between records
	HeartRates []uint8       // 0xFF marks a record without a reading
	Sport      fit.Sport
	NoSession  bool
}

// EncodeTestFIT encodes a minimal FIT activity file.
// This is only intended for use in tests.
func EncodeTestFIT(ta TestActivity) ([]byte, error) {
	f, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	if err != nil {
		return nil, fmt.Errorf("creating FIT file: %w", err)
	}
	f.FileId.TimeCreated = ta.Start

	act, err := f.Activity()
	if err != nil {
		return nil, fmt.Errorf("getting activity: %w", err)
	}

	for i, hr := range ta.HeartRates {
		rec := fit.NewRecordMsg()
		rec.Timestamp = ta.Start.Add(time.Duration(i) * ta.Step)
		rec.HeartRate = hr
		act.Records = append(act.Records, rec)
	}

	if !ta.NoSession {
		sess := fit.NewSessionMsg()
		sess.StartTime = ta.Start
		sess.Timestamp = ta.Start
		sess.Sport = ta.Sport
		if n := len(ta.HeartRates); n > 1 {
			elapsed := time.Duration(n-1) * ta.Step
			sess.TotalElapsedTime = uint32(elapsed.Milliseconds())
			sess.Timestamp = ta.Start.Add(elapsed)
		}
		act.Sessions = append(act.Sessions, sess)
	}

	var buf bytes.Buffer
	if err := fit.Encode(&buf, f, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("encoding FIT file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTestFIT encodes ta and writes it to path.
// This is only intended for use in tests.
func WriteTestFIT(path string, ta TestActivity) error {
	data, err := EncodeTestFIT(ta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
