package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	"github.com/oksasatya/go-marketplace-api/pkg/imagestore"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrPageNotFound  = errors.New("page not found")
	ErrNotOwner      = errors.New("caller does not own the offer")
	ErrInvalidOffer  = errors.New("invalid offer parameters")
)

// Publish bounds, checked before any persistence.
const (
	maxTitleLen       = 50
	maxDescriptionLen = 500
	maxPrice          = 100000
)

const defaultPageSize = 5

// OfferService owns the listing lifecycle: publish, lookup, search with
// pagination, and the ownership-gated update/delete coordinated with the
// external image host.
type OfferService struct {
	Offers  repository.OfferRepository
	Users   repository.UserRepository
	Images  imagestore.Store
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewOfferService(offers repository.OfferRepository, users repository.UserRepository, images imagestore.Store, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *OfferService {
	return &OfferService{Offers: offers, Users: users, Images: images, Logger: logger, ES: es, ESIndex: esIndex}
}

// PublishInput carries the publish form fields.
type PublishInput struct {
	Title       string
	Description string
	Price       float64
	Details     entity.Details
	Picture     *FileUpload
}

// Publish validates the bounds, uploads the picture under offers/<id> and
// persists the offer with the caller as owner.
func (s *OfferService) Publish(ctx context.Context, ownerID string, in PublishInput) (*entity.Offer, error) {
	if len(in.Title) > maxTitleLen || len(in.Description) > maxDescriptionLen || in.Price > maxPrice || in.Price < 0 {
		return nil, ErrInvalidOffer
	}

	o := &entity.Offer{
		ID:          uuid.NewString(),
		Name:        in.Title,
		Description: in.Description,
		Price:       in.Price,
		Details:     in.Details,
		OwnerID:     ownerID,
	}

	if in.Picture != nil && s.Images != nil {
		res, err := s.Images.Upload(ctx, "offers/"+o.ID, in.Picture.Filename, in.Picture.ContentType, in.Picture.Reader)
		if err != nil {
			return nil, err
		}
		o.Image = &entity.Image{URL: res.URL, PublicID: res.PublicID}
	}

	if err := s.Offers.Create(ctx, o); err != nil {
		return nil, err
	}

	if owner, err := s.Users.GetByID(ctx, ownerID); err == nil {
		o.Owner = owner.Public()
	}
	s.index(ctx, o)
	return o, nil
}

// Get returns one offer with the owner redacted to public fields.
func (s *OfferService) Get(ctx context.Context, id string) (*entity.Offer, error) {
	o, err := s.Offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return o, nil
}

// SearchParams are the raw, all-optional query parameters of GET /offers.
type SearchParams struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string // "price-asc", "price-desc" or empty
	Limit    int
	Page     int
}

// SearchResult is one page of matches plus the unsliced total.
type SearchResult struct {
	Count  int             `json:"count"`
	Offers []*entity.Offer `json:"offers"`
}

// buildSearchPlan normalizes the raw parameters into a store query and the
// effective page number used for the page-validity decision. Limit defaults
// when absent or non-positive, so the max-page division is always safe; a
// page of zero or less behaves like page one and never skips backwards.
func buildSearchPlan(p SearchParams) (repository.OfferSearch, int) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return repository.OfferSearch{
		Title:    p.Title,
		PriceMin: p.PriceMin,
		PriceMax: p.PriceMax,
		Sort:     parseSort(p.Sort),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}, page
}

func parseSort(s string) repository.OfferSort {
	switch s {
	case "price-asc":
		return repository.SortPriceAsc
	case "price-desc":
		return repository.SortPriceDesc
	default:
		return repository.SortNone
	}
}

// Search runs the filtered, sorted, paginated listing query. A page past the
// last one is an error, not an empty result; with zero matches even page one
// does not exist, which the legacy API also did.
func (s *OfferService) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	q, page := buildSearchPlan(p)

	offers, total, err := s.Offers.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	maxPage := (total + q.Limit - 1) / q.Limit
	if page > maxPage {
		return nil, ErrPageNotFound
	}
	if offers == nil {
		offers = []*entity.Offer{}
	}
	return &SearchResult{Count: total, Offers: offers}, nil
}

// UpdateInput carries the partial-update fields; nil means "not supplied".
// Empty strings are treated as absent, matching the legacy form semantics.
type UpdateInput struct {
	Title       string
	Description string
	Price       *float64
	Details     entity.Details
	Picture     *FileUpload
}

// Update applies a partial update after the ownership gate. The gate
// compares the caller's bearer token against the owner's current token, not
// a cached value. A new picture first purges the old one on the image host.
func (s *OfferService) Update(ctx context.Context, id, callerToken string, in UpdateInput) (*entity.Offer, error) {
	o, err := s.Offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if err := s.gate(ctx, o, callerToken); err != nil {
		return nil, err
	}

	if in.Title != "" {
		o.Name = in.Title
	}
	if in.Description != "" {
		o.Description = in.Description
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	patchDetails(&o.Details, in.Details)

	if in.Picture != nil && s.Images != nil {
		// Old image out first, then the replacement. Not atomic with the row
		// update: a failure in between leaves host and store diverged.
		if err := s.Images.DeleteByPrefix(ctx, "offers/"+o.ID); err != nil {
			return nil, err
		}
		res, err := s.Images.Upload(ctx, "offers/"+o.ID, in.Picture.Filename, in.Picture.ContentType, in.Picture.Reader)
		if err != nil {
			return nil, err
		}
		o.Image = &entity.Image{URL: res.URL, PublicID: res.PublicID}
	}

	if err := s.Offers.Update(ctx, o); err != nil {
		return nil, err
	}
	s.index(ctx, o)
	return o, nil
}

// Delete removes the offer and its hosted images, owner only.
func (s *OfferService) Delete(ctx context.Context, id, callerToken string) error {
	o, err := s.Offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	if err := s.gate(ctx, o, callerToken); err != nil {
		return err
	}

	if s.Images != nil {
		if err := s.Images.DeleteByPrefix(ctx, "offers/"+o.ID); err != nil {
			return err
		}
		if err := s.Images.DeleteFolder(ctx, "offers/"+o.ID); err != nil {
			return err
		}
	}
	if err := s.Offers.Delete(ctx, o.ID); err != nil {
		return err
	}
	s.deindex(ctx, o.ID)
	return nil
}

// gate re-resolves the owner and compares tokens verbatim.
func (s *OfferService) gate(ctx context.Context, o *entity.Offer, callerToken string) error {
	owner, err := s.Users.GetByID(ctx, o.OwnerID)
	if err != nil {
		return err
	}
	if callerToken == "" || owner.Token != callerToken {
		return ErrNotOwner
	}
	return nil
}

// patchDetails overwrites only the attribute slots a new value was supplied
// for. Keyed addressing replaces the legacy positional list walk.
func patchDetails(dst *entity.Details, in entity.Details) {
	if in.Brand != "" {
		dst.Brand = in.Brand
	}
	if in.Size != "" {
		dst.Size = in.Size
	}
	if in.Condition != "" {
		dst.Condition = in.Condition
	}
	if in.Color != "" {
		dst.Color = in.Color
	}
	if in.Location != "" {
		dst.Location = in.Location
	}
}

// index mirrors the offer into Elasticsearch, best effort.
func (s *OfferService) index(ctx context.Context, o *entity.Offer) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":                  o.ID,
		"product_name":        o.Name,
		"product_description": o.Description,
		"product_price":       o.Price,
		"brand":               o.Details.Brand,
		"location":            o.Details.Location,
		"owner_id":            o.OwnerID,
		"created_at":          o.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: o.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("offer_id", o.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("offer_id", o.ID).Warn("es index response error")
	}
}

func (s *OfferService) deindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("offer_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// FullText runs a multi_match query over product_name and description.
func (s *OfferService) FullText(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"product_name^2", "product_description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
