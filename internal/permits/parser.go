package permits

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/normalize"
)

// ParsePage extracts permits from one rendered results page. The grid
// layout is tried first; the card fallback only runs when the grid
// produced nothing, which covers CityView deployments that render
// results as divs instead of tables.
func ParsePage(html string, layout GridLayout) ([]model.Permit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "permits: parse html")
	}

	permits := parseGrid(doc, layout)
	if len(permits) == 0 {
		permits = parseCards(doc, layout)
	}
	return permits, nil
}

func parseGrid(doc *goquery.Document, layout GridLayout) []model.Permit {
	var permits []model.Permit

	eachRow(doc, layout, func(row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < layout.MinCells {
			zap.L().Debug("permits: short row skipped",
				zap.Int("cells", cells.Length()),
				zap.Int("min_cells", layout.MinCells),
			)
			return
		}

		permit := model.Permit{
			County:       layout.County,
			PermitNumber: cellText(cells, layout.NumberCell),
			PermitType:   cellText(cells, layout.TypeCell),
			SiteAddress:  cellText(cells, layout.AddressCell),
			Description:  cellText(cells, layout.DescriptionCell),
			Status:       cellText(cells, layout.StatusCell),
			AppliedDate:  parseAppliedDate(cellText(cells, layout.DateCell)),
		}

		if permit.PermitNumber == "" || !matchesKeywords(permit.PermitType+" "+permit.Description, layout.Keywords) {
			return
		}
		permits = append(permits, permit)
	})

	return permits
}

func eachRow(doc *goquery.Document, layout GridLayout, fn func(*goquery.Selection)) {
	if layout.RowSelector != "" {
		doc.Find(layout.RowSelector).Each(func(_ int, row *goquery.Selection) {
			fn(row)
		})
		return
	}
	doc.Find(layout.TableSelector).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			fn(row)
		})
	})
}

// parseCards handles the div-based CityView rendering: the card's full
// text becomes the description, the first link text the permit number.
func parseCards(doc *goquery.Document, layout GridLayout) []model.Permit {
	var permits []model.Permit

	doc.Find("div[class*='card'], div[class*='result']").Each(func(_ int, card *goquery.Selection) {
		text := normalize.CollapseSpace(card.Text())
		if !matchesKeywords(text, layout.Keywords) {
			return
		}
		number := normalize.CollapseSpace(card.Find("a").First().Text())
		if number == "" {
			return
		}
		if len(text) > 500 {
			text = text[:500]
		}
		permits = append(permits, model.Permit{
			County:       layout.County,
			PermitNumber: number,
			Description:  text,
		})
	})

	return permits
}

func cellText(cells *goquery.Selection, index int) string {
	if index >= cells.Length() {
		return ""
	}
	return normalize.CollapseSpace(cells.Eq(index).Text())
}

func matchesKeywords(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
