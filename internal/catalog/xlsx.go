package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/studentgear/internal/models"
)

// xlsxColumns is the header row written by WriteXLSX. ReadXLSX matches headers
// case-insensitively and ignores unknown columns; only "name" is required.
var xlsxColumns = []string{
	"name", "price", "description", "category", "badge", "aliases",
	"image", "image_url", "rating", "popularity", "date_added", "amazon", "flipkart",
}

const xlsxDateLayout = "2006-01-02"

// ReadXLSX reads a workbook with one sheet per branch. The sheet name is the
// branch code.
func ReadXLSX(path string) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var branches []Branch
	var products []*models.Product
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		code := strings.ToUpper(strings.TrimSpace(sheet))
		branches = append(branches, Branch{Code: code, Name: defaultBranchName(code)})
		if len(rows) == 0 {
			continue
		}

		cols := headerIndex(rows[0])
		if _, ok := cols["name"]; !ok {
			return nil, fmt.Errorf("sheet %q: missing name column", sheet)
		}
		for i, row := range rows[1:] {
			p, err := productFromRow(cols, row)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
			}
			if p == nil {
				continue
			}
			p.Branch = code
			products = append(products, p)
		}
	}
	return Build(branches, products)
}

// WriteXLSX writes the snapshot as a workbook readable by ReadXLSX.
func WriteXLSX(path string, snap *Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(xlsxColumns))
	for i, c := range xlsxColumns {
		header[i] = c
	}

	wrote := false
	for _, b := range snap.Branches() {
		if _, err := f.NewSheet(b.Code); err != nil {
			return fmt.Errorf("create sheet %q: %w", b.Code, err)
		}
		if err := f.SetSheetRow(b.Code, "A1", &header); err != nil {
			return fmt.Errorf("write header for %q: %w", b.Code, err)
		}
		for i, p := range snap.BranchProducts(b.Code) {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			row := productRow(p)
			if err := f.SetSheetRow(b.Code, cell, &row); err != nil {
				return fmt.Errorf("write %q: %w", p.Name, err)
			}
		}
		wrote = true
	}
	if wrote {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			cols[h] = i
		}
	}
	return cols
}

func productFromRow(cols map[string]int, row []string) (*models.Product, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := get("name")
	if name == "" {
		return nil, nil
	}
	p := &models.Product{
		Name:        name,
		Description: get("description"),
		Category:    get("category"),
		Badge:       get("badge"),
		Image:       get("image"),
		ImageURL:    get("image_url"),
		Affiliates: models.AffiliateLinks{
			Amazon:   get("amazon"),
			Flipkart: get("flipkart"),
		},
	}
	for _, a := range strings.Split(get("aliases"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			p.Aliases = append(p.Aliases, a)
		}
	}

	var err error
	if p.Price, err = parseFloat(get("price")); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	if p.Rating, err = parseFloat(get("rating")); err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}
	if p.Popularity, err = parseFloat(get("popularity")); err != nil {
		return nil, fmt.Errorf("popularity: %w", err)
	}
	if s := get("date_added"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return nil, fmt.Errorf("date_added: %w", err)
		}
		p.DateAdded = &t
	}
	return p, nil
}

func productRow(p *models.Product) []interface{} {
	date := ""
	if p.DateAdded != nil {
		date = p.DateAdded.UTC().Format(xlsxDateLayout)
	}
	return []interface{}{
		p.Name, p.Price, p.Description, p.Category, p.Badge, strings.Join(p.Aliases, ", "),
		p.Image, p.ImageURL, p.Rating, p.Popularity, date, p.Affiliates.Amazon, p.Affiliates.Flipkart,
	}
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(xlsxDateLayout, s)
}
