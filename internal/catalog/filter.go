package catalog

import (
	"strings"

	"github.com/dadao-education/unicatalog/internal/models"
)

// RegionAll matches every university
const RegionAll = "不限"

// Regions lists the region filters offered to users
var Regions = []string{RegionAll, "英国", "美国", "澳大利亚", "新加坡", "中国香港", "加拿大", "欧洲", "亚洲"}

var (
	europeLocations = []string{"瑞士", "法国", "德国", "荷兰", "爱尔兰", "意大利", "西班牙"}
	asiaLocations   = []string{"中国", "日本", "韩国"}
)

// Filter narrows a catalog listing
type Filter struct {
	Region string
	// Query is matched case-insensitively against both names
	Query string
}

// Matches reports whether u passes the filter
func (f Filter) Matches(u models.University) bool {
	return matchesRegion(u, f.Region) && matchesQuery(u, f.Query)
}

func matchesRegion(u models.University, region string) bool {
	switch region {
	case "", RegionAll:
		return true
	case "欧洲":
		for _, c := range europeLocations {
			if strings.Contains(u.Location, c) {
				return true
			}
		}
		return false
	case "亚洲":
		for _, c := range asiaLocations {
			if u.Location == c || u.Country == c {
				return true
			}
		}
		return false
	default:
		return strings.Contains(u.Location, region)
	}
}

func matchesQuery(u models.University, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.NameCN), q) || strings.Contains(strings.ToLower(u.NameEN), q)
}

// Filter returns the universities matching f in ranking order
func (r *Repository) Filter(f Filter) []models.University {
	all := r.All()
	out := make([]models.University, 0, len(all))
	for _, u := range all {
		if f.Matches(u) {
			out = append(out, u)
		}
	}
	return out
}
