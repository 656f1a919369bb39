package polymarket

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// flexFloat unmarshals from a JSON number or a numeric string. Anything else
// (null, bool, non-numeric text, "NaN", "Inf") leaves it unset rather than
// failing the whole response.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.valid = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		f.value, f.valid = v, true
	}
	return nil
}

func (f *flexFloat) ptr() *float64 {
	if f == nil || !f.valid {
		return nil
	}
	v := f.value
	return &v
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APISearchResponse is the body of GET /public-search.
type APISearchResponse struct {
	Profiles []APIProfile `json:"profiles"`
}

// APIProfile is one profile entry of a public-search response.
type APIProfile struct {
	ProxyWallet string `json:"proxyWallet"`
	Username    string `json:"username"`
	UserName    string `json:"userName"`
	Name        string `json:"name"`
	Pseudonym   string `json:"pseudonym"`
}

// ToDomainProfile converts an APIProfile to a domain.Profile.
func (p *APIProfile) ToDomainProfile() domain.Profile {
	return domain.Profile{
		ProxyWallet: p.ProxyWallet,
		Username:    p.Username,
		UserName:    p.UserName,
		Name:        p.Name,
		Pseudonym:   p.Pseudonym,
	}
}

// --------------------------------------------------------------------------
// Data API DTOs
// --------------------------------------------------------------------------

// APIPosition is one entry of GET /positions. Pointer fields distinguish an
// absent field from an empty one.
type APIPosition struct {
	ConditionID  *string         `json:"conditionId"`
	OutcomeIndex json.RawMessage `json:"outcomeIndex"`
	Asset        *string         `json:"asset"`
	AssetID      *string         `json:"assetId"`
	Title        *string         `json:"title"`
	Outcome      *string         `json:"outcome"`
	Size         *flexFloat      `json:"size"`
	Slug         *string         `json:"slug"`
}

// ToDomainRawPosition converts an APIPosition to a domain.RawPosition. The
// asset field is preferred; assetId is read when asset is absent.
func (p *APIPosition) ToDomainRawPosition() domain.RawPosition {
	asset := p.Asset
	if asset == nil {
		asset = p.AssetID
	}
	return domain.RawPosition{
		ConditionID:  p.ConditionID,
		OutcomeIndex: p.OutcomeIndex,
		AssetID:      asset,
		Title:        p.Title,
		Outcome:      p.Outcome,
		Size:         p.Size.ptr(),
		Slug:         p.Slug,
	}
}
