package models

import (
	"encoding/json"
	"time"

	"github.com/vit0-9/site_analyzer/pkg/utils"
)

// FirstSeen is the existence-date slot. Unlike the other sections it is a
// plain string in JSON whether it holds a date or an error message.
type FirstSeen struct {
	Date time.Time
	Err  error
	text string
}

func FirstSeenAt(t time.Time) FirstSeen { return FirstSeen{Date: t} }

func FirstSeenFailed(err error) FirstSeen { return FirstSeen{Err: err} }

// FirstSeenText holds a display string other than an archive date.
func FirstSeenText(text string) FirstSeen { return FirstSeen{text: text} }

// Text is the display string for the slot.
func (f FirstSeen) Text() string {
	switch {
	case f.Err != nil:
		return f.Err.Error()
	case f.text != "":
		return f.text
	case f.Date.IsZero():
		return ""
	}
	return utils.FormatFirstSeen(f.Date)
}

func (f FirstSeen) MarshalJSON() ([]byte, error) {
	return marshalUnescaped(f.Text())
}

func (f *FirstSeen) UnmarshalJSON(data []byte) error {
	var text *string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*f = FirstSeen{}
	if text != nil {
		f.text = *text
	}
	return nil
}
