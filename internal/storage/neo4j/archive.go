package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	pkgneo4j "github.com/honeycarbs/job-aggregator/pkg/neo4j"
)

var _ job.Archive = (*ArchiveRepository)(nil)

// ArchiveRepository stores completed queries as (:Query)-[:RETURNED]->(:Job) graphs
type ArchiveRepository struct {
	client *pkgneo4j.Client
}

// NewArchiveRepository creates an ArchiveRepository with a Neo4j client
func NewArchiveRepository(client *pkgneo4j.Client) *ArchiveRepository {
	return &ArchiveRepository{
		client: client,
	}
}

var schemaStatements = []string{
	`CREATE CONSTRAINT query_id IF NOT EXISTS FOR (q:Query) REQUIRE q.id IS UNIQUE`,
	`CREATE CONSTRAINT job_key IF NOT EXISTS FOR (j:Job) REQUIRE j.key IS UNIQUE`,
	`CREATE INDEX query_completed_at IF NOT EXISTS FOR (q:Query) ON (q.completedAt)`,
}

// EnsureSchema creates the constraints and indexes the archive relies on
func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("neo4j archive: ensure schema: %w", err)
		}
	}
	return nil
}

const saveResultSetQuery = `
	CREATE (q:Query {
		id: $id,
		sessionId: $sessionId,
		text: $text,
		location: $location,
		jobType: $jobType,
		sources: $sources,
		resultCount: $resultCount,
		completedAt: datetime({epochMillis: $completedAt})
	})
	WITH q
	UNWIND $jobs AS job
	MERGE (j:Job {key: job.key})
	SET j.title = job.title,
	    j.location = job.location,
	    j.posted = job.posted,
	    j.source = job.source,
	    j.link = job.link
	MERGE (c:Company {name: job.company})
	MERGE (j)-[:POSTED_BY]->(c)
	CREATE (q)-[:RETURNED {position: job.position}]->(j)
`

// SaveResultSet stores the query and every record in the order received
func (r *ArchiveRepository) SaveResultSet(ctx context.Context, q domain.ArchivedQuery) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, saveResultSetQuery, archiveParams(q))
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j archive: save result set: %w", err)
	}
	return nil
}

const recentQueriesQuery = `
	MATCH (q:Query)
	RETURN q.id AS id,
	       q.text AS text,
	       q.location AS location,
	       q.jobType AS jobType,
	       q.sources AS sources,
	       q.resultCount AS resultCount,
	       q.completedAt AS completedAt
	ORDER BY q.completedAt DESC
	LIMIT $limit
`

// RecentQueries lists archived queries, newest first
func (r *ArchiveRepository) RecentQueries(ctx context.Context, limit int) ([]domain.QuerySummary, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, recentQueriesQuery, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		summaries := make([]domain.QuerySummary, 0, len(records))
		for _, rec := range records {
			summaries = append(summaries, summaryFrom(rec.AsMap()))
		}
		return summaries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j archive: recent queries: %w", err)
	}

	return out.([]domain.QuerySummary), nil
}

func archiveParams(q domain.ArchivedQuery) map[string]any {
	jobs := make([]map[string]any, 0, len(q.Records))
	for i, rec := range q.Records {
		jobs = append(jobs, map[string]any{
			"key":      jobKey(rec),
			"position": i,
			"title":    rec.Title,
			"company":  rec.Company,
			"location": rec.Location,
			"posted":   rec.Posted,
			"source":   rec.Source,
			"link":     rec.LinkOrEmpty(),
		})
	}

	sources := q.Query.Sources
	if sources == nil {
		sources = []string{}
	}

	return map[string]any{
		"id":          q.ID.String(),
		"sessionId":   q.SessionID,
		"text":        q.Query.Text,
		"location":    q.Query.Location,
		"jobType":     q.Query.JobType,
		"sources":     sources,
		"resultCount": len(q.Records),
		"completedAt": q.CompletedAt.UnixMilli(),
		"jobs":        jobs,
	}
}

// jobKey identifies a listing across queries: by link when present,
// otherwise by its visible fields
func jobKey(rec domain.JobRecord) string {
	if rec.HasLink() {
		return "link:" + rec.LinkOrEmpty()
	}
	return "rec:" + strings.Join([]string{rec.Source, rec.Title, rec.Company, rec.Location}, "|")
}

func summaryFrom(m map[string]any) domain.QuerySummary {
	s := domain.QuerySummary{
		ID:       stringProp(m["id"]),
		Text:     stringProp(m["text"]),
		Location: stringProp(m["location"]),
		JobType:  stringProp(m["jobType"]),
		Sources:  []string{},
	}

	if list, ok := m["sources"].([]any); ok {
		for _, v := range list {
			if name, ok := v.(string); ok {
				s.Sources = append(s.Sources, name)
			}
		}
	}

	switch n := m["resultCount"].(type) {
	case int64:
		s.ResultCount = int(n)
	case int:
		s.ResultCount = n
	}

	switch t := m["completedAt"].(type) {
	case time.Time:
		s.CompletedAt = t.UTC()
	case neo4j.LocalDateTime:
		s.CompletedAt = t.Time()
	}

	return s
}

func stringProp(v any) string {
	s, _ := v.(string)
	return s
}
