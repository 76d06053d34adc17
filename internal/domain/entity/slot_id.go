package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot identifiers are "<version>-<payload>". Version v1 payload is "YYYYMMDD-HHMM" in UTC,
// for example "v1-20240608-1930". New versions get their own decoder; old ids keep decoding.
const (
	SlotIDVersion1       = "v1"
	CurrentSlotIDVersion = SlotIDVersion1
)

var slotIDDecoders = map[string]func(payload string) (time.Time, error){
	SlotIDVersion1: decodeSlotIDv1,
}

// SlotRef is a decoded slot identifier
type SlotRef struct {
	Version string
	Start   time.Time
}

// End returns the canonical end of the slot
func (r SlotRef) End() time.Time {
	return r.Start.Add(SlotDuration)
}

// Date returns the calendar date the slot belongs to
func (r SlotRef) Date() time.Time {
	return TruncateToDate(r.Start)
}

// EncodeSlotID encodes a slot start with the current version
func EncodeSlotID(start time.Time) string {
	start = start.UTC()
	return fmt.Sprintf("%s-%s-%02d%02d", CurrentSlotIDVersion, start.Format("20060102"), start.Hour(), start.Minute())
}

// ParseSlotID decodes an identifier produced by EncodeSlotID
func ParseSlotID(id string) (SlotRef, error) {
	version, payload, ok := strings.Cut(id, "-")
	if !ok {
		return SlotRef{}, fmt.Errorf("slot id %q has no version tag", id)
	}
	decode, ok := slotIDDecoders[version]
	if !ok {
		return SlotRef{}, fmt.Errorf("slot id version %q is not supported", version)
	}
	start, err := decode(payload)
	if err != nil {
		return SlotRef{}, fmt.Errorf("slot id %q: %w", id, err)
	}
	return SlotRef{Version: version, Start: start}, nil
}

func decodeSlotIDv1(payload string) (time.Time, error) {
	datePart, clockPart, ok := strings.Cut(payload, "-")
	if !ok || len(datePart) != 8 || len(clockPart) != 4 || !isDigits(datePart) || !isDigits(clockPart) {
		return time.Time{}, fmt.Errorf("payload %q is not YYYYMMDD-HHMM", payload)
	}
	day, err := time.ParseInLocation("20060102", datePart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	hour, err := strconv.Atoi(clockPart[:2])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour %q", clockPart[:2])
	}
	minute, err := strconv.Atoi(clockPart[2:])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute %q", clockPart[2:])
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}
