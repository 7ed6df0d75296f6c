package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

type tablePayload struct {
	Habits  []string        `json:"habits"`
	Records []recordPayload `json:"records"`
}

type recordPayload struct {
	Person string `json:"p"`
	Date   string `json:"d"`
	Values []int  `json:"v"`
}

// EncodeTable serializes a table to snappy-compressed JSON.
func EncodeTable(t *domain.Table) ([]byte, error) {
	p := tablePayload{
		Habits:  t.Habits,
		Records: make([]recordPayload, 0, len(t.Records)),
	}
	for _, r := range t.Records {
		p.Records = append(p.Records, recordPayload{
			Person: r.Person,
			Date:   r.Date.Format(domain.DateLayout),
			Values: r.Values,
		})
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

// DecodeTable reverses EncodeTable and revalidates the result.
func DecodeTable(data []byte) (*domain.Table, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress table: %w", err)
	}

	var p tablePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	records := make([]domain.HabitRecord, 0, len(p.Records))
	for _, r := range p.Records {
		date, err := time.Parse(domain.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("decode table: %w", err)
		}
		records = append(records, domain.HabitRecord{Person: r.Person, Date: date, Values: r.Values})
	}

	return domain.NewTable(p.Habits, records)
}
