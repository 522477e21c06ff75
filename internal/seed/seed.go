// Package seed loads demo fixtures into the in-memory stores at startup.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/repository"
)

// fixtureFile mirrors the YAML schema used by configs/seed.yaml.
type fixtureFile struct {
	Ambassadors []ambassadorFixture `yaml:"ambassadors"`
	Partners    []partnerFixture    `yaml:"partners"`
	Requests    []requestFixture    `yaml:"pending_requests"`
}

type ambassadorFixture struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Tier      string `yaml:"tier"`
	Qualified bool   `yaml:"qualified"`
}

type contactFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Title string `yaml:"title"`
}

type levelFixture struct {
	Count   int64  `yaml:"count"`
	Revenue string `yaml:"revenue"`
}

type partnerFixture struct {
	ID                string         `yaml:"id"`
	AmbassadorID      string         `yaml:"ambassador_id"`
	Name              string         `yaml:"name"`
	Website           string         `yaml:"website"`
	Contact           contactFixture `yaml:"contact"`
	Region            string         `yaml:"region"`
	Model             string         `yaml:"distribution_model"`
	Status            string         `yaml:"status"`
	PartnerCode       string         `yaml:"partner_code"`
	BulkPurchaseValue string         `yaml:"bulk_purchase_value"`
	Levels            []levelFixture `yaml:"levels"`
}

type requestFixture struct {
	ID             string         `yaml:"id"`
	AmbassadorID   string         `yaml:"ambassador_id"`
	Name           string         `yaml:"name"`
	Website        string         `yaml:"website"`
	Contact        contactFixture `yaml:"contact"`
	Region         string         `yaml:"region"`
	PreferredModel string         `yaml:"preferred_model"`
	Domain         string         `yaml:"domain"`
	RiskScore      float64        `yaml:"risk_score"`
}

// Stores are the repositories fixtures are written into.
type Stores struct {
	Ambassadors repository.AmbassadorRepository
	Partners    repository.PartnerRepository
	Approvals   repository.ApprovalRepository
}

// Summary counts what was loaded.
type Summary struct {
	Ambassadors int
	Partners    int
	Requests    int
}

// LoadFile reads and applies a fixture file.
func LoadFile(ctx context.Context, path string, stores Stores, now time.Time) (Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read seed file: %w", err)
	}
	return Load(ctx, raw, stores, now)
}

// Load parses YAML fixtures and writes them into the stores. Records are
// stamped in file order ending at now, so listings keep the file's order.
// Fixtures bypass the approval workflow and may carry any partner status.
func Load(ctx context.Context, raw []byte, stores Stores, now time.Time) (Summary, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Summary{}, fmt.Errorf("parse seed file: %w", err)
	}

	total := len(file.Ambassadors) + len(file.Partners) + len(file.Requests)
	step := 0
	stamp := func() time.Time {
		step++
		return now.Add(-time.Duration(total-step) * time.Minute)
	}

	var summary Summary
	for _, fx := range file.Ambassadors {
		ambassador, err := fx.toDomain(stamp())
		if err != nil {
			return summary, err
		}
		if err := stores.Ambassadors.Create(ctx, ambassador); err != nil {
			return summary, err
		}
		summary.Ambassadors++
	}

	for _, fx := range file.Partners {
		partner, err := fx.toDomain(stamp())
		if err != nil {
			return summary, err
		}
		if _, err := stores.Ambassadors.GetByID(ctx, partner.AmbassadorID); err != nil {
			return summary, fmt.Errorf("partner %s: %w", partner.ID, err)
		}
		if err := stores.Partners.Create(ctx, partner); err != nil {
			return summary, err
		}
		if _, err := stores.Ambassadors.Mutate(ctx, partner.AmbassadorID, func(a *domain.Ambassador) error {
			a.PartnerIDs = append(a.PartnerIDs, partner.ID)
			return nil
		}); err != nil {
			return summary, err
		}
		summary.Partners++
	}

	for _, fx := range file.Requests {
		request, err := fx.toDomain(stamp())
		if err != nil {
			return summary, err
		}
		if _, err := stores.Ambassadors.GetByID(ctx, request.AmbassadorID); err != nil {
			return summary, fmt.Errorf("request %s: %w", request.ID, err)
		}
		if err := stores.Approvals.Create(ctx, request); err != nil {
			return summary, err
		}
		summary.Requests++
	}
	return summary, nil
}

func (fx ambassadorFixture) toDomain(at time.Time) (*domain.Ambassador, error) {
	if strings.TrimSpace(fx.ID) == "" || strings.TrimSpace(fx.Name) == "" {
		return nil, fmt.Errorf("ambassador fixture needs id and name: %w", domain.ErrInvalidAmbassador)
	}
	tier := domain.QualificationTier(strings.ToUpper(fx.Tier))
	if tier == "" {
		tier = domain.TierStandard
	}
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("ambassador %s tier %q: %w", fx.ID, fx.Tier, domain.ErrInvalidAmbassador)
	}
	ambassador := &domain.Ambassador{
		ID:        fx.ID,
		Name:      fx.Name,
		Email:     fx.Email,
		Tier:      tier,
		Qualified: fx.Qualified,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if fx.Qualified {
		ambassador.QualificationHistory = []domain.QualificationChange{{
			Qualified: true,
			ChangedBy: domain.SystemActor.ID,
			Note:      "seeded",
			ChangedAt: at,
		}}
	}
	return ambassador, nil
}

func (fx partnerFixture) toDomain(at time.Time) (*domain.Partner, error) {
	if fx.ID == "" || fx.AmbassadorID == "" || fx.Name == "" {
		return nil, fmt.Errorf("partner fixture needs id, ambassador_id and name: %w", domain.ErrInvalidCandidate)
	}
	model := domain.DistributionModel(strings.ToUpper(fx.Model))
	if !domain.ValidModel(model) {
		return nil, fmt.Errorf("partner %s model %q: %w", fx.ID, fx.Model, domain.ErrInvalidCandidate)
	}
	status := domain.PartnerStatus(strings.ToUpper(fx.Status))
	if status == "" {
		status = domain.PartnerStatusApproved
	}
	if !domain.ValidPartnerStatus(status) {
		return nil, fmt.Errorf("partner %s status %q: %w", fx.ID, fx.Status, domain.ErrInvalidTransition)
	}
	if len(fx.Levels) > domain.LevelCount {
		return nil, fmt.Errorf("partner %s has %d levels: %w", fx.ID, len(fx.Levels), domain.ErrInvalidLevel)
	}

	var levels domain.Levels
	for i := range levels {
		levels[i].Revenue = decimal.Zero
	}
	for i, lvl := range fx.Levels {
		revenue, err := parseMoney(lvl.Revenue)
		if err != nil {
			return nil, fmt.Errorf("partner %s level %d: %w", fx.ID, i+1, err)
		}
		if lvl.Count < 0 {
			return nil, fmt.Errorf("partner %s level %d: %w", fx.ID, i+1, domain.ErrInvalidActivity)
		}
		levels[i] = domain.LevelActivity{Count: lvl.Count, Revenue: revenue}
	}
	bulk, err := parseMoney(fx.BulkPurchaseValue)
	if err != nil {
		return nil, fmt.Errorf("partner %s bulk purchase value: %w", fx.ID, err)
	}

	code := fx.PartnerCode
	if code == "" {
		code = domain.NewPartnerCode(fx.Name)
	}
	return &domain.Partner{
		ID:                fx.ID,
		AmbassadorID:      fx.AmbassadorID,
		Name:              fx.Name,
		Website:           fx.Website,
		Contact:           domain.Contact(fx.Contact),
		Region:            fx.Region,
		DistributionModel: model,
		Status:            status,
		PartnerCode:       code,
		Levels:            levels,
		BulkPurchaseValue: bulk,
		CreatedAt:         at,
		UpdatedAt:         at,
	}, nil
}

func (fx requestFixture) toDomain(at time.Time) (*domain.ApprovalRequest, error) {
	if fx.AmbassadorID == "" || strings.TrimSpace(fx.Name) == "" {
		return nil, fmt.Errorf("request fixture needs ambassador_id and name: %w", domain.ErrInvalidCandidate)
	}
	if fx.RiskScore < 0 || fx.RiskScore > 1 {
		return nil, fmt.Errorf("request %s risk score %v: %w", fx.ID, fx.RiskScore, domain.ErrInvalidCandidate)
	}
	model := domain.DistributionModel(strings.ToUpper(fx.PreferredModel))
	if model == "" {
		model = domain.ModelPassThrough
	}
	if !domain.ValidModel(model) {
		return nil, fmt.Errorf("request %s model %q: %w", fx.ID, fx.PreferredModel, domain.ErrInvalidCandidate)
	}
	id := fx.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &domain.ApprovalRequest{
		ID:           id,
		AmbassadorID: fx.AmbassadorID,
		Candidate: domain.CandidatePartner{
			Name:           fx.Name,
			Website:        fx.Website,
			Contact:        domain.Contact(fx.Contact),
			Region:         fx.Region,
			PreferredModel: model,
		},
		Domain:      fx.Domain,
		RiskScore:   fx.RiskScore,
		Status:      domain.RequestStatusAwaitingAdmin,
		SubmittedAt: at,
	}, nil
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, domain.ErrInvalidActivity)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, domain.ErrInvalidActivity)
	}
	return d, nil
}
