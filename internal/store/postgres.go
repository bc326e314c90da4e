package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ideaforge/newsminer/internal/article"
)

// articleRecord is the GORM model for the articles table. The unique
// index on url is what serializes conflicting concurrent inserts.
type articleRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	URL        string    `gorm:"size:500;not null;uniqueIndex"`
	Title      string    `gorm:"size:500"`
	Summary    string    `gorm:"type:text"`
	Snippet    string    `gorm:"size:500"`
	RawContent string    `gorm:"type:text"`
	Language   string    `gorm:"size:8"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (articleRecord) TableName() string {
	return "articles"
}

// Postgres is the direct-database ArticleStore backend.
type Postgres struct {
	gdb *gorm.DB
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(&articleRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate articles table: %w", err)
	}

	return &Postgres{gdb: gdb}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.gdb == nil {
		return nil
	}
	sqlDB, err := p.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *Postgres) Insert(ctx context.Context, a article.Article) (article.Article, error) {
	clipped := clipForStorage(a)
	record := toRecord(clipped)

	result := p.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		return article.Article{}, fmt.Errorf("insert article: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return article.Article{}, fmt.Errorf("insert url=%s: %w", clipped.URL, ErrDuplicate)
	}

	return fromRecord(record), nil
}

func (p *Postgres) ByURL(ctx context.Context, url string) (article.Article, error) {
	var record articleRecord
	err := p.gdb.WithContext(ctx).Where("url = ?", url).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return article.Article{}, fmt.Errorf("url=%s: %w", url, ErrNotFound)
	}
	if err != nil {
		return article.Article{}, fmt.Errorf("fetch article by url: %w", err)
	}
	return fromRecord(record), nil
}

func (p *Postgres) All(ctx context.Context) ([]article.Article, error) {
	var records []articleRecord
	if err := p.gdb.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetch all articles: %w", err)
	}
	return fromRecords(records), nil
}

func (p *Postgres) Recent(ctx context.Context, n int) ([]article.Article, error) {
	if n <= 0 {
		return nil, nil
	}

	var records []articleRecord
	if err := p.gdb.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetch recent articles: %w", err)
	}
	return fromRecords(records), nil
}

func toRecord(a article.Article) articleRecord {
	return articleRecord{
		URL:        a.URL,
		Title:      a.Title,
		Summary:    a.Summary,
		Snippet:    a.Snippet,
		RawContent: a.RawContent,
		Language:   a.Language,
	}
}

func fromRecord(r articleRecord) article.Article {
	return article.Article{
		URL:        r.URL,
		Title:      r.Title,
		Summary:    r.Summary,
		Snippet:    r.Snippet,
		RawContent: r.RawContent,
		Language:   r.Language,
	}
}

func fromRecords(records []articleRecord) []article.Article {
	articles := make([]article.Article, 0, len(records))
	for _, record := range records {
		articles = append(articles, fromRecord(record))
	}
	return articles
}
