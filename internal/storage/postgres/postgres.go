package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/reconcile"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	log.Println("Connected to Postgres database")

	pg := &Postgres{Db: db}
	err = pg.CreateTables()
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS parents (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS children (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			parent_id INTEGER NOT NULL REFERENCES parents(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			age INTEGER NOT NULL,
			favorite_theme VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS story_projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
			template VARCHAR(100) NOT NULL,
			title TEXT,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			video_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS project_assets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES story_projects(id) ON DELETE CASCADE,
			type VARCHAR(50) NOT NULL,
			url TEXT,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			metadata JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS approved_videos (
			id SERIAL PRIMARY KEY,
			video_url TEXT,
			title TEXT,
			video_title TEXT,
			duration DOUBLE PRECISION,
			approval_status VARCHAR(50),
			metadata JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS available_videos (
			id SERIAL PRIMARY KEY,
			url TEXT,
			title TEXT,
			duration DOUBLE PRECISION,
			metadata JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS published_videos (
			id SERIAL PRIMARY KEY,
			url TEXT,
			title TEXT,
			duration DOUBLE PRECISION,
			metadata JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS assets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			url TEXT,
			file_url TEXT,
			title TEXT,
			duration DOUBLE PRECISION,
			metadata JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS render_jobs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES story_projects(id) ON DELETE CASCADE,
			render_id VARCHAR(255) UNIQUE NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'queued',
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			output_url TEXT,
			error TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			started_at TIMESTAMP,
			completed_at TIMESTAMP,
			failed_at TIMESTAMP
		);
		`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) CreateParent(email, passwordHash string) (string, error) {
	var parentID int
	query := `
	INSERT INTO parents (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRow(query, email, passwordHash).Scan(&parentID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", parentID), nil
}

func (p *Postgres) GetParentByEmail(email string) (string, string, error) {
	var parentID int
	var hashedPassword string
	query := `
	SELECT id, password FROM parents WHERE email = $1
	`

	err := p.Db.QueryRow(query, email).Scan(&parentID, &hashedPassword)
	if err != nil {
		return "", "", err
	}

	return fmt.Sprintf("%d", parentID), hashedPassword, nil
}

func (p *Postgres) CreateChild(parentID, name string, age int, favoriteTheme string) (string, error) {
	var childID string
	query := `
	INSERT INTO children (parent_id, name, age, favorite_theme)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	err := p.Db.QueryRow(query, parentID, name, age, favoriteTheme).Scan(&childID)
	if err != nil {
		return "", err
	}

	return childID, nil
}

func (p *Postgres) ListChildrenByParent(parentID string) ([]types.Child, error) {
	query := `
	SELECT id, parent_id, name, age, COALESCE(favorite_theme, ''), created_at
	FROM children WHERE parent_id = $1 ORDER BY created_at
	`
	return p.scanChildren(p.Db.Query(query, parentID))
}

func (p *Postgres) ListChildren() ([]types.Child, error) {
	query := `
	SELECT id, parent_id, name, age, COALESCE(favorite_theme, ''), created_at
	FROM children ORDER BY created_at
	`
	return p.scanChildren(p.Db.Query(query))
}

func (p *Postgres) scanChildren(rows *sql.Rows, err error) ([]types.Child, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []types.Child
	for rows.Next() {
		var c types.Child
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Age, &c.FavoriteTheme, &c.CreatedAt); err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

func (p *Postgres) ListStoriesByChild(childID string) ([]types.StoryProject, error) {
	query := `
	SELECT id, child_id, template, COALESCE(title, ''), status, COALESCE(video_url, ''), created_at
	FROM story_projects WHERE child_id = $1 ORDER BY created_at DESC
	`
	rows, err := p.Db.Query(query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []types.StoryProject
	for rows.Next() {
		var s types.StoryProject
		if err := rows.Scan(&s.ID, &s.ChildID, &s.Template, &s.Title, &s.Status, &s.VideoURL, &s.CreatedAt); err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

func (p *Postgres) GetProject(id string) (types.StoryProject, error) {
	var s types.StoryProject
	query := `
	SELECT id, child_id, template, COALESCE(title, ''), status, COALESCE(video_url, ''), created_at
	FROM story_projects WHERE id = $1
	`
	err := p.Db.QueryRow(query, id).Scan(&s.ID, &s.ChildID, &s.Template, &s.Title, &s.Status, &s.VideoURL, &s.CreatedAt)
	return s, err
}

func (p *Postgres) DeleteProjectAssets(projectID string) error {
	_, err := p.Db.Exec(`DELETE FROM project_assets WHERE project_id = $1`, projectID)
	return err
}

func (p *Postgres) DeleteProject(id string) error {
	result, err := p.Db.Exec(`DELETE FROM story_projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (p *Postgres) ListProjectAssets(projectID string) ([]assets.Record, error) {
	query := `
	SELECT id, project_id, type, COALESCE(url, ''), status, metadata, created_at
	FROM project_assets WHERE project_id = $1 ORDER BY created_at
	`
	rows, err := p.Db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []assets.Record
	for rows.Next() {
		rec, err := scanAssetRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (p *Postgres) GetAsset(id string) (assets.Record, error) {
	query := `
	SELECT id, project_id, type, COALESCE(url, ''), status, metadata, created_at
	FROM project_assets WHERE id = $1
	`
	row := p.Db.QueryRow(query, id)
	return scanAssetRecordRow(row)
}

func (p *Postgres) UpdateAssetStatus(id string, status assets.Status) error {
	result, err := p.Db.Exec(`UPDATE project_assets SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssetRecordRow(row rowScanner) (assets.Record, error) {
	var rec assets.Record
	var status string
	var metadata []byte
	err := row.Scan(&rec.ID, &rec.ProjectID, &rec.Type, &rec.URL, &status, &metadata, &rec.CreatedAt)
	if err != nil {
		return assets.Record{}, err
	}
	rec.Status = assets.Status(status)
	rec.Metadata = unmarshalMetadata(metadata)
	return rec, nil
}

// unmarshalMetadata tolerates NULL and malformed JSONB; metadata is
// advisory and a bad value must not sink the whole row.
func unmarshalMetadata(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func (p *Postgres) ListApprovedVideos() ([]reconcile.Record, error) {
	query := `
	SELECT id, video_url, COALESCE(title, ''), COALESCE(video_title, ''), COALESCE(duration, 0), metadata, created_at
	FROM approved_videos
	WHERE video_url IS NOT NULL AND approval_status = 'approved'
	`
	return p.queryReconcileRecords(query, reconcile.SourceApprovedVideos, "approved", false)
}

func (p *Postgres) ListAvailableVideos() ([]reconcile.Record, error) {
	query := `
	SELECT id, url, COALESCE(title, ''), '', COALESCE(duration, 0), metadata, created_at
	FROM available_videos
	WHERE url IS NOT NULL
	`
	return p.queryReconcileRecords(query, reconcile.SourceAvailableVideos, "", false)
}

func (p *Postgres) ListPublishedVideos() ([]reconcile.Record, error) {
	query := `
	SELECT id, url, COALESCE(title, ''), '', COALESCE(duration, 0), metadata, created_at
	FROM published_videos
	WHERE url IS NOT NULL
	`
	return p.queryReconcileRecords(query, reconcile.SourcePublishedVideos, "", true)
}

func (p *Postgres) ListGenericAssets() ([]reconcile.Record, error) {
	// Rows with neither url nor file_url are unreachable in the bucket and
	// are dropped here rather than downstream.
	query := `
	SELECT id, COALESCE(url, file_url), COALESCE(title, ''), '', COALESCE(duration, 0), metadata, created_at
	FROM assets
	WHERE url IS NOT NULL OR file_url IS NOT NULL
	`
	return p.queryReconcileRecords(query, reconcile.SourceAssets, "", false)
}

func (p *Postgres) queryReconcileRecords(query, source, approvalStatus string, published bool) ([]reconcile.Record, error) {
	rows, err := p.Db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []reconcile.Record
	for rows.Next() {
		var rec reconcile.Record
		var metadata []byte
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Title, &rec.AltTitle, &rec.Duration, &metadata, &createdAt); err != nil {
			return nil, err
		}
		rec.Metadata = unmarshalMetadata(metadata)
		rec.Source = source
		rec.ApprovalStatus = approvalStatus
		rec.IsPublished = published
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (p *Postgres) CreateRenderJob(projectID, renderID string) (string, error) {
	var jobID string
	query := `
	INSERT INTO render_jobs (project_id, render_id)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRow(query, projectID, renderID).Scan(&jobID)
	if err != nil {
		return "", err
	}

	return jobID, nil
}

func (p *Postgres) GetRenderJobByRenderID(renderID string) (types.RenderJob, error) {
	var job types.RenderJob
	var status string
	var startedAt, completedAt, failedAt sql.NullTime
	query := `
	SELECT id, project_id, render_id, status, progress, COALESCE(output_url, ''), COALESCE(error, ''),
	       created_at, started_at, completed_at, failed_at
	FROM render_jobs WHERE render_id = $1
	`
	err := p.Db.QueryRow(query, renderID).Scan(&job.ID, &job.ProjectID, &job.RenderID, &status,
		&job.Progress, &job.OutputURL, &job.Error, &job.CreatedAt, &startedAt, &completedAt, &failedAt)
	if err != nil {
		return types.RenderJob{}, err
	}
	job.Status = types.RenderStatus(status)
	job.StartedAt = nullTimePtr(startedAt)
	job.CompletedAt = nullTimePtr(completedAt)
	job.FailedAt = nullTimePtr(failedAt)
	return job, nil
}

func (p *Postgres) UpdateRenderJob(job types.RenderJob) error {
	query := `
	UPDATE render_jobs
	SET status = $2, progress = $3, output_url = $4, error = $5,
	    started_at = $6, completed_at = $7, failed_at = $8
	WHERE id = $1
	`
	_, err := p.Db.Exec(query, job.ID, string(job.Status), job.Progress,
		nullString(job.OutputURL), nullString(job.Error),
		ptrTime(job.StartedAt), ptrTime(job.CompletedAt), ptrTime(job.FailedAt))
	return err
}

func (p *Postgres) ListActiveRenderJobs() ([]types.RenderJob, error) {
	query := `
	SELECT id, project_id, render_id, status, progress, COALESCE(output_url, ''), COALESCE(error, ''),
	       created_at, started_at, completed_at, failed_at
	FROM render_jobs WHERE status NOT IN ('completed', 'failed') ORDER BY created_at
	`
	rows, err := p.Db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []types.RenderJob
	for rows.Next() {
		var job types.RenderJob
		var status string
		var startedAt, completedAt, failedAt sql.NullTime
		if err := rows.Scan(&job.ID, &job.ProjectID, &job.RenderID, &status, &job.Progress,
			&job.OutputURL, &job.Error, &job.CreatedAt, &startedAt, &completedAt, &failedAt); err != nil {
			return nil, err
		}
		job.Status = types.RenderStatus(status)
		job.StartedAt = nullTimePtr(startedAt)
		job.CompletedAt = nullTimePtr(completedAt)
		job.FailedAt = nullTimePtr(failedAt)
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func ptrTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
