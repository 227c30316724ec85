package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/repository"
)

// SeedService генерирует демонстрационные данные для разработки:
// пользователей, заказы, отклики и контрпредложения.
type SeedService struct {
	userRepo       *repository.UserRepository
	jobRepo        *repository.JobRepository
	proposalRepo   *repository.ProposalRepository
	counterBidRepo *repository.CounterBidRepository
	counterBidTTL  time.Duration
}

// NewSeedService создаёт новый сервис генерации данных.
func NewSeedService(
	userRepo *repository.UserRepository,
	jobRepo *repository.JobRepository,
	proposalRepo *repository.ProposalRepository,
	counterBidRepo *repository.CounterBidRepository,
	counterBidTTL time.Duration,
) *SeedService {
	return &SeedService{
		userRepo:       userRepo,
		jobRepo:        jobRepo,
		proposalRepo:   proposalRepo,
		counterBidRepo: counterBidRepo,
		counterBidTTL:  counterBidTTL,
	}
}

var seedSkills = []string{
	"JavaScript", "TypeScript", "React", "Vue.js", "Node.js", "Python", "Go",
	"Java", "PHP", "Swift", "Kotlin", "Flutter", "Docker", "Kubernetes",
	"PostgreSQL", "MongoDB", "Redis", "GraphQL", "REST API", "CI/CD",
	"Figma", "UI/UX Design", "SEO", "Копирайтинг", "Перевод", "Аналитика данных",
}

// SeedData генерирует пользователей, заказы, отклики и контрпредложения.
func (s *SeedService) SeedData(ctx context.Context, numUsers, numJobs int) error {
	if numUsers < 4 {
		numUsers = 4
	}
	if numJobs < 1 {
		numJobs = 1
	}

	users, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seed service: не удалось создать пользователей: %w", err)
	}

	var clients []*models.User
	var freelancers []*models.User
	for _, user := range users {
		if user.Role == models.RoleClient {
			clients = append(clients, user)
		} else {
			freelancers = append(freelancers, user)
		}
	}

	jobs, err := s.generateJobs(ctx, clients, numJobs)
	if err != nil {
		return fmt.Errorf("seed service: не удалось создать заказы: %w", err)
	}

	if err := s.generateProposals(ctx, jobs, freelancers); err != nil {
		return fmt.Errorf("seed service: не удалось создать отклики: %w", err)
	}

	return nil
}

func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, error) {
	// Один общий пароль на все демо-аккаунты.
	hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		role := models.RoleFreelancer
		if i%2 == 0 {
			role = models.RoleClient
		}

		user := &models.User{
			Email:        fmt.Sprintf("%s.%d@%s", strings.ToLower(gofakeit.FirstName()), i, gofakeit.DomainName()),
			Name:         gofakeit.Name(),
			PasswordHash: string(hash),
			Role:         role,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *SeedService) generateJobs(ctx context.Context, clients []*models.User, count int) ([]*models.Job, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("нет заказчиков для создания заказов")
	}

	jobs := make([]*models.Job, 0, count)
	for i := 0; i < count; i++ {
		client := clients[rand.Intn(len(clients))]

		numSkills := 2 + rand.Intn(4)
		skills := make([]string, 0, numSkills)
		seen := make(map[string]struct{}, numSkills)
		for len(skills) < numSkills {
			skill := seedSkills[rand.Intn(len(seedSkills))]
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}

		job := &models.Job{
			ClientID:    client.ID,
			Title:       gofakeit.BuzzWord() + " " + gofakeit.HackerNoun(),
			Description: gofakeit.Paragraph(2, 4, 12, " "),
			Skills:      skills,
			Budget:      float64(500+rand.Intn(9500)) * 10,
			Status:      models.JobStatusOpen,
		}
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// generateProposals создаёт по несколько откликов на заказ,
// часть из них получает контрпредложение от заказчика.
func (s *SeedService) generateProposals(ctx context.Context, jobs []*models.Job, freelancers []*models.User) error {
	if len(freelancers) == 0 {
		return fmt.Errorf("нет исполнителей для создания откликов")
	}

	for _, job := range jobs {
		numProposals := 1 + rand.Intn(3)
		if numProposals > len(freelancers) {
			numProposals = len(freelancers)
		}

		order := rand.Perm(len(freelancers))
		for i := 0; i < numProposals; i++ {
			freelancer := freelancers[order[i]]

			proposal := &models.Proposal{
				JobID:        job.ID,
				FreelancerID: freelancer.ID,
				CoverLetter:  gofakeit.Paragraph(1, 3, 10, " "),
				BidAmount:    job.Budget * (0.7 + rand.Float64()*0.5),
				Status:       models.ProposalStatusPending,
			}
			if err := s.proposalRepo.Create(ctx, proposal); err != nil {
				return err
			}

			// Примерно треть откликов получает контрпредложение.
			if rand.Intn(3) == 0 {
				msg := gofakeit.Sentence(8)
				cb := &models.CounterBid{
					ProposalID:    proposal.ID,
					FromUserID:    job.ClientID,
					ToUserID:      freelancer.ID,
					CounterAmount: proposal.BidAmount * 0.9,
					Message:       &msg,
					Status:        models.CounterBidStatusPending,
					ExpiresAt:     time.Now().Add(s.counterBidTTL),
				}
				if err := s.counterBidRepo.Create(ctx, cb); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
