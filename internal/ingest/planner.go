package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"feedlake/internal/config"
	"feedlake/internal/domain"
	"feedlake/internal/feed"
	"feedlake/internal/tablespec"
)

// maxConcurrentPlans bounds PlanAll parallelism.
const maxConcurrentPlans = 8

// profileColumns are the statistics columns of every profile table.
var profileColumns = []tablespec.ColumnSpec{
	{Name: "columnname", DataType: "string"},
	{Name: "metrictype", DataType: "string"},
	{Name: "metricvalue", DataType: "string"},
}

// Planner derives table statements for feed definitions.
type Planner struct {
	baseLocation string
	storage      config.StorageFormats
	logger       *slog.Logger
}

// NewPlanner creates a Planner using cfg for locations and storage formats
// that a feed does not override.
func NewPlanner(cfg *config.Config, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{baseLocation: cfg.BaseLocation, storage: cfg.Storage, logger: logger}
}

// PlanFeed derives the statements for every role of def.
func (p *Planner) PlanFeed(def *feed.Definition) (*Plan, error) {
	base := firstNonEmpty(def.Storage.Location, p.baseLocation)
	rawFormat := firstNonEmpty(def.Storage.FeedFormat, p.storage.FeedFormat)
	targetFormat := firstNonEmpty(def.Storage.TargetFormat, p.storage.TargetFormat)
	targetProps := firstNonEmpty(def.Storage.TargetTblProperties, p.storage.TargetTblProperties)
	partitions := tablespec.PartitionColumns(def.Partitions)

	plan := &Plan{ID: domain.NewID(), Category: def.Category, Feed: def.Name}
	for _, k := range def.Partitions {
		plan.Partitions = append(plan.Partitions, PartitionFormula{
			Column:  k.Column.Name,
			Type:    k.Column.DataType,
			Formula: k.Formula,
		})
	}
	for _, role := range tablespec.Roles() {
		columns := def.Columns
		if role == tablespec.Profile {
			columns = profileColumns
		}

		qualified, err := role.QualifiedName(def.Category, def.Name)
		if err != nil {
			return nil, fmt.Errorf("plan %s table for %s: %w", role, def.Key(), err)
		}
		location, err := role.LocationClause(base, def.Category, def.Name)
		if err != nil {
			return nil, fmt.Errorf("plan %s table for %s: %w", role, def.Key(), err)
		}

		s := TableStatement{
			Role:          role,
			RoleName:      role.String(),
			TableName:     role.TableName(def.Name),
			QualifiedName: qualified,
			Columns:       role.ColumnClause(columns, partitions),
			Partition:     role.PartitionClause(partitions),
			Format:        role.FormatClause(rawFormat, targetFormat),
			Location:      location,
			Properties:    role.TablePropertiesClause(targetProps),
		}
		s.Statement = assemble(s)
		plan.Statements = append(plan.Statements, s)
	}

	p.logger.Debug("feed planned", "feed", def.Key(), "plan_id", plan.ID, "tables", len(plan.Statements))
	return plan, nil
}

// PlanAll plans defs concurrently. Results keep the order of defs; the first
// failure cancels the remaining work.
func (p *Planner) PlanAll(ctx context.Context, defs []*feed.Definition) ([]*Plan, error) {
	plans := make([]*Plan, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPlans)
	for i, def := range defs {
		i, def := i, def
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := p.PlanFeed(def)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
