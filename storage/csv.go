package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mrzlkvvv/OhMyCash/provider"
)

var header = []string{"id", "code", "count", "name", "rate"}

func encodeCSV(records []provider.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv write header: %w", err)
	}

	for _, r := range records {
		if err := w.Write([]string{
			r.ID,
			r.Code,
			strconv.Itoa(r.Count),
			r.Name,
			strconv.FormatFloat(r.Rate, 'f', -1, 64),
		}); err != nil {
			return nil, fmt.Errorf("csv write %s: %w", r.Code, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeCSV(b []byte) ([]provider.Record, error) {
	decoder := csv.NewReader(bytes.NewReader(b))
	decoder.FieldsPerRecord = len(header)

	var records []provider.Record
	idx := 0

	for {
		line, err := decoder.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}

		if idx == 0 {
			idx++
			for n, column := range line {
				if column != header[n] {
					return nil, fmt.Errorf("%w: header column %d is %q", ErrCorruptData, n, column)
				}
			}
			continue
		}

		count, err := strconv.Atoi(line[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d count: %v", ErrCorruptData, idx, err)
		}

		rate, err := strconv.ParseFloat(line[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d rate: %v", ErrCorruptData, idx, err)
		}

		records = append(records, provider.Record{
			ID:    line[0],
			Code:  line[1],
			Count: count,
			Name:  line[3],
			Rate:  rate,
		})
		idx++
	}

	if idx == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorruptData)
	}

	return records, nil
}
