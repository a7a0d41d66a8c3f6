package textdex

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

type person struct {
	ID      int    `textdex:"Id,id"`
	Name    string `textdex:"Name"`
	Remarks string `textdex:"Remarks,text,highlight"`
}

type pet struct {
	Name    string `textdex:"Name,id"`
	Remarks string `textdex:"Remarks,text"`
}

type mood int

const (
	moodCalm mood = iota + 1
	moodAngry
)

var moodNames = map[mood]string{moodCalm: "Calm", moodAngry: "Angry"}

func (m mood) MarshalText() ([]byte, error) {
	name, ok := moodNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown mood %d", int(m))
	}
	return []byte(name), nil
}

func (m *mood) UnmarshalText(b []byte) error {
	for k, v := range moodNames {
		if v == string(b) {
			*m = k
			return nil
		}
	}
	return errors.New("unknown mood " + string(b))
}

// tide marshals through pointer receivers only.
type tide int

const (
	tideLow tide = iota + 1
	tideHigh
)

func (t *tide) MarshalText() ([]byte, error) {
	switch *t {
	case tideLow:
		return []byte("Low"), nil
	case tideHigh:
		return []byte("High"), nil
	}
	return nil, fmt.Errorf("unknown tide %d", int(*t))
}

func (t *tide) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Low":
		*t = tideLow
	case "High":
		*t = tideHigh
	default:
		return errors.New("unknown tide " + string(b))
	}
	return nil
}

type voyage struct {
	Port string `textdex:"Port,id"`
	Tide tide   `textdex:"Tide"`
}

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type profile struct {
	Key      string            `textdex:"Key,id"`
	Title    string            `textdex:",text"`
	Body     string            `textdex:"Body,text,html,highlight=2"`
	Secret   string            `textdex:"Secret,nostore"`
	Age      int32             `textdex:"Age"`
	Visits   int64             `textdex:"Visits"`
	Small    int16             `textdex:"Small"`
	Count    uint32            `textdex:"Count"`
	Ratio    float32           `textdex:"Ratio"`
	Balance  float64           `textdex:"Balance"`
	Joined   time.Time         `textdex:"Joined"`
	Mood     mood              `textdex:"Mood"`
	MaybeAge *int              `textdex:"MaybeAge"`
	Mood2    *mood             `textdex:"Mood2"`
	Home     *address          `textdex:"Home"`
	Tags     []string          `textdex:"Tags"`
	Meta     map[string]string `textdex:"Meta"`
	Active   bool              `textdex:"Active"`
	Ignored  string            `textdex:"-"`
	Untagged string
}

type empty struct {
	A string
	B int
}

// upperRecord encodes itself.
type upperRecord struct {
	Word string
}

func (u *upperRecord) MarshalRecord(r *Record) error {
	r.Add("Word", record.Keyword(strings.ToUpper(u.Word)), true)
	return nil
}

func (u *upperRecord) UnmarshalRecord(r *Record) error {
	w, _ := r.Get("Word")
	u.Word = strings.ToLower(w)
	return nil
}

// fakeHighlighter returns fixed fragments.
type fakeHighlighter struct {
	frags []string
	limit int
}

func (f *fakeHighlighter) Fragments(_, _ string, limit int) []string {
	f.limit = limit
	return f.frags
}
