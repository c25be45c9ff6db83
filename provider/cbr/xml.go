package cbr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mrzlkvvv/OhMyCash/provider"
	"golang.org/x/text/encoding/charmap"
)

func decodeXML() decodeFunc {
	return parseXML
}

// parseXML parses the daily XML feed in streaming mode and returns the rates of the ValCurs element
func parseXML(b []byte) (rubDailyRates, error) {
	var dailyRates rubDailyRates
	decoder := xml.NewDecoder(bytes.NewReader(b))
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(label) {
		case "windows-1251", "cp1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		case "utf-8":
			return input, nil
		}

		return nil, fmt.Errorf("charset %s is not defined", label)
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return dailyRates, errDateNotFound
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return dailyRates, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			}

			return dailyRates, fmt.Errorf("%w: decode token: %v", errDecodeToken, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "ValCurs" {
			continue
		}

		var node xmlNode
		if err := decoder.DecodeElement(&node, &start); err != nil {
			return dailyRates, fmt.Errorf("%w: decode element: %v", errDecodeToken, err)
		}

		if node.Date == "" {
			return dailyRates, errDateNotFound
		}

		dt, err := parseDate(node.Date)
		if err != nil {
			return dailyRates, err
		}

		dailyRates.time = dt
		dailyRates.rates = make([]provider.Record, 0, len(node.Rates))

		for _, r := range node.Rates {
			rec, err := newRecord(r.NumCode, r.CharCode, r.Nominal, r.Name, r.Value)
			if err != nil {
				return rubDailyRates{}, err
			}

			dailyRates.rates = append(dailyRates.rates, rec)
		}

		if len(dailyRates.rates) == 0 {
			return rubDailyRates{}, fmt.Errorf("%w: no Valute elements", errTableNotFound)
		}

		return dailyRates, nil
	}
}

type xmlCcyRate struct {
	NumCode  string `xml:"NumCode"`
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Name     string `xml:"Name"`
	Value    string `xml:"Value"`
}

type xmlNode struct {
	Date  string       `xml:"Date,attr"`
	Rates []xmlCcyRate `xml:"Valute"`
}
