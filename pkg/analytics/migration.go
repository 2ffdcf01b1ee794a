package analytics

import (
	"math"
	"slices"

	"github.com/distpulse/dpulse/pkg/ident"
)

// Migration classifications. Address changes signal arrivals while
// biometric authentications without address changes signal departures.
const (
	MigrationHighIn  = "HIGH IN-MIGRATION"
	MigrationHighOut = "HIGH OUT-MIGRATION"
	MigrationMobile  = "HIGH MOBILITY (Both)"
	MigrationStable  = "STABLE"
)

// MigrationRow carries one district's migration indices across the
// whole reporting window.
type MigrationRow struct {
	State            string  `json:"state"`
	District         string  `json:"district"`
	TotalEnrolment   int64   `json:"total_enrolment"`
	TotalDemoUpdates int64   `json:"total_demo_updates"`
	TotalBioAuth     int64   `json:"total_bio_auth"`
	InScore          float64 `json:"in_migration_score"`
	OutScore         float64 `json:"out_migration_score"`
	NetScore         float64 `json:"net_migration_score"`
	Intensity        float64 `json:"migration_intensity"`
	MigrationType    string  `json:"migration_type"`
}

// Migration scores every district's in- and out-migration pressure.
// The in score counts address changes per thousand biometric
// authentications; the out score is the inverse ratio clipped at 10 so
// a district with no address changes cannot dominate the ranking.
// Rows come back sorted by migration intensity descending.
func Migration(t *ident.MergedTable) []MigrationRow {
	places := placeSums(t)
	res := make([]MigrationRow, 0, len(places))
	for _, p := range places {
		demo := p.DemoAdult + p.DemoChild
		bio := p.BioAdult + p.BioChild
		r := MigrationRow{
			State:            p.State,
			District:         p.District,
			TotalEnrolment:   p.TotalEnrolment,
			TotalDemoUpdates: demo,
			TotalBioAuth:     bio,
			InScore:          damped(float64(demo), float64(bio)) * 1000,
			OutScore:         math.Min(damped(float64(bio), float64(demo)), 10),
		}
		r.NetScore = r.InScore - r.OutScore
		r.Intensity = r.InScore + r.OutScore
		r.MigrationType = classifyMigration(r)
		res = append(res, r)
	}

	slices.SortStableFunc(res, func(a, b MigrationRow) int {
		switch {
		case a.Intensity > b.Intensity:
			return -1
		case a.Intensity < b.Intensity:
			return 1
		}
		return 0
	})
	return res
}

func classifyMigration(r MigrationRow) string {
	switch {
	case r.InScore > 20 && r.NetScore > 5:
		return MigrationHighIn
	case r.OutScore > 5 && r.NetScore < -2:
		return MigrationHighOut
	case r.Intensity > 15:
		return MigrationMobile
	}
	return MigrationStable
}

// CorridorRow pairs the gaining and losing districts of one state.
type CorridorRow struct {
	State        string   `json:"state"`
	InDistricts  []string `json:"in_districts"`
	OutDistricts []string `json:"out_districts"`
	NIn          int      `json:"n_in"`
	NOut         int      `json:"n_out"`
}

// Corridors reports states holding both HIGH IN-MIGRATION and HIGH
// OUT-MIGRATION districts, a likely within-state population flow.
// States appear in the order their first district ranks by intensity,
// and each district list keeps that intensity order.
func Corridors(rows []MigrationRow) []CorridorRow {
	byState := make(map[string]*CorridorRow, len(rows))
	var order []string
	for _, r := range rows {
		c, ok := byState[r.State]
		if !ok {
			c = &CorridorRow{State: r.State}
			byState[r.State] = c
			order = append(order, r.State)
		}
		switch r.MigrationType {
		case MigrationHighIn:
			c.InDistricts = append(c.InDistricts, r.District)
		case MigrationHighOut:
			c.OutDistricts = append(c.OutDistricts, r.District)
		}
	}

	res := make([]CorridorRow, 0, len(order))
	for _, state := range order {
		c := byState[state]
		if len(c.InDistricts) == 0 || len(c.OutDistricts) == 0 {
			continue
		}
		c.NIn = len(c.InDistricts)
		c.NOut = len(c.OutDistricts)
		res = append(res, *c)
	}
	return res
}

// MobilityTrendRow is one month of national address-change activity.
type MobilityTrendRow struct {
	Month          ident.Month `json:"month"`
	AddressChanges int64       `json:"total_address_changes"`
	BioAuth        int64       `json:"total_bio_auth"`
	MobilityRatio  float64     `json:"mobility_ratio"`
}

// MobilityTrend tracks month-by-month mobility as address changes per
// hundred biometric authentications, in chronological order.
func MobilityTrend(t *ident.MergedTable) []MobilityTrendRow {
	months := monthSums(t)
	res := make([]MobilityTrendRow, 0, len(months))
	for _, m := range months {
		addr := m.DemoAdult + m.DemoChild
		bio := m.BioAdult + m.BioChild
		res = append(res, MobilityTrendRow{
			Month:          m.Month,
			AddressChanges: addr,
			BioAuth:        bio,
			MobilityRatio:  damped(float64(addr), float64(bio)) * 100,
		})
	}
	return res
}
