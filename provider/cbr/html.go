package cbr

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	dateSelector  = "button.datepicker-filter_button"
	tableSelector = "table"
)

func decodeHTML() decodeFunc {
	return parseHTML
}

// parseHTML reads the daily rates page. The date button holds the date the page actually shows,
// the first table holds one currency per row after the header
func parseHTML(b []byte) (rubDailyRates, error) {
	var dailyRates rubDailyRates

	b, err := toUTF8(b)
	if err != nil {
		return dailyRates, err
	}

	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return dailyRates, fmt.Errorf("%w: html parse: %v", errDecodeToken, err)
	}

	doc := goquery.NewDocumentFromNode(root)

	button := doc.Find(dateSelector).First()
	if button.Length() == 0 {
		return dailyRates, errDateNotFound
	}

	dt, err := parseDate(button.Text())
	if err != nil {
		return dailyRates, err
	}

	dailyRates.time = dt

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return dailyRates, errTableNotFound
	}

	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		// header
		if i == 0 {
			return true
		}

		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return td.Text()
		})
		if len(cells) != 5 {
			rowErr = fmt.Errorf("%w: row %d has %d cells", errAttributeNotValid, i, len(cells))
			return false
		}

		r, err := newRecord(cells[0], cells[1], cells[2], cells[3], cells[4])
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}

		dailyRates.rates = append(dailyRates.rates, r)

		return true
	})

	if rowErr != nil {
		return rubDailyRates{}, rowErr
	}

	if len(dailyRates.rates) == 0 {
		return rubDailyRates{}, fmt.Errorf("%w: no rows", errTableNotFound)
	}

	return dailyRates, nil
}

// toUTF8 leaves valid UTF-8 alone and otherwise decodes by the charset the page declares
func toUTF8(b []byte) ([]byte, error) {
	if utf8.Valid(b) {
		return b, nil
	}

	enc, name, _ := charset.DetermineEncoding(b, "")
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", errDecodeToken, name, err)
	}

	return out, nil
}
