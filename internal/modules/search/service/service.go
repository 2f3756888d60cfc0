package service

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	postsIndex   = "posts"
	surveysIndex = "surveys"
	signerName   = "TenantTokenSigner"
	publicRole   = "public"
)

type MeiliSearchService interface {
	IndexPost(post *entity.Post) error
	DeletePost(id string) error
	IndexSurvey(survey *entity.Survey) error
	DeleteSurvey(id string) error
	GenerateSearchToken(role entity.Role) (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

// NewMeiliSearchService prepares both indexes and finds (or creates) the key used to sign
// tenant tokens. Failures are logged; indexing calls will surface their own errors later.
func NewMeiliSearchService(client meilisearch.ServiceManager) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == signerName {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        signerName,
		Actions:     []string{"search"},
		Indexes:     []string{postsIndex, surveysIndex},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

func (s *meiliSearchService) initIndexes() {
	for _, index := range []string{postsIndex, surveysIndex} {
		filterable := []any{"allowed_roles", "user_id"}
		if _, err := s.client.Index(index).UpdateFilterableAttributes(&filterable); err != nil {
			log.Printf("Failed to update %s filterable attributes: %v", index, err)
		}

		sortable := []string{"created_at"}
		if _, err := s.client.Index(index).UpdateSortableAttributes(&sortable); err != nil {
			log.Printf("Failed to update %s sortable attributes: %v", index, err)
		}
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliPostDoc struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	UserID       string          `json:"user_id"`
	AllowedRoles []string        `json:"allowed_roles"`
	CreatedAt    int64           `json:"created_at"`
	User         meiliUserSubset `json:"user"`
}

type meiliSurveyDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	UserID       string   `json:"user_id"`
	IsActive     bool     `json:"is_active"`
	AllowedRoles []string `json:"allowed_roles"`
	CreatedAt    int64    `json:"created_at"`
}

type meiliUserSubset struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// CleanContent turns stored rich text into the plain text that gets indexed.
func (s *meiliSearchService) CleanContent(content string) string {
	return cleanContent(s.sanitizer, content)
}

func cleanContent(policy *bluemonday.Policy, content string) string {
	// block tags become spaces so adjacent paragraphs do not merge into one word
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *entity.Post) error {
	doc := meiliPostDoc{
		ID:           post.ID.String(),
		Title:        post.Title,
		Content:      s.CleanContent(post.Content),
		UserID:       post.UserID.String(),
		AllowedRoles: []string{publicRole},
		CreatedAt:    post.CreatedAt.Unix(),
		User: meiliUserSubset{
			Username:  post.User.Username,
			AvatarURL: getStringOrEmpty(post.User.AvatarURL),
		},
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeletePost(id string) error {
	_, err := s.client.Index(postsIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) IndexSurvey(survey *entity.Survey) error {
	doc := meiliSurveyDoc{
		ID:           survey.ID.String(),
		Title:        survey.Title,
		Description:  s.CleanContent(survey.Description),
		UserID:       survey.UserID.String(),
		IsActive:     survey.IsActive,
		AllowedRoles: SurveyAudience(survey),
		CreatedAt:    survey.CreatedAt.Unix(),
	}

	task, err := s.client.Index(surveysIndex).AddDocuments([]meiliSurveyDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed survey %s, task id: %d", survey.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteSurvey(id string) error {
	_, err := s.client.Index(surveysIndex).DeleteDocument(id)
	return err
}

// SurveyAudience lists who may find a survey: open surveys are public, closed ones only
// staff.
func SurveyAudience(survey *entity.Survey) []string {
	if survey.IsActive {
		return []string{publicRole}
	}
	return []string{entity.RoleLecturer.String()}
}

// SearchFilter is the tenant filter applied for a role; empty means unrestricted.
func SearchFilter(role entity.Role) string {
	if role == entity.RoleAdmin {
		return ""
	}
	return fmt.Sprintf("allowed_roles IN ['%s', '%s']", role.String(), publicRole)
}

func (s *meiliSearchService) GenerateSearchToken(role entity.Role) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	var rule map[string]any
	if filter := SearchFilter(role); filter != "" {
		rule = map[string]any{"filter": filter}
	} else {
		rule = map[string]any{"filter": nil}
	}

	searchRules := map[string]any{
		postsIndex:   rule,
		surveysIndex: rule,
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
