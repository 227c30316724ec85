package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/pkg/apperror"
)

// Фейковые хранилища воспроизводят семантику репозиториев в памяти:
// проверки статусов, отклонение конкурентов при принятии, закрытие
// контрпредложений. Это позволяет прогонять полные сценарии переговоров.

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperror.ErrUserNotFound
}

type fakeJobStore struct {
	jobs map[uuid.UUID]*models.Job
}

func (f *fakeJobStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	if job, ok := f.jobs[id]; ok {
		return job, nil
	}
	return nil, apperror.ErrJobNotFound
}

type fakeProposalStore struct {
	jobs        *fakeJobStore
	counterBids *fakeCounterBidStore
	proposals   map[uuid.UUID]*models.Proposal
}

func (f *fakeProposalStore) Create(ctx context.Context, proposal *models.Proposal) error {
	job, ok := f.jobs.jobs[proposal.JobID]
	if !ok || job.Status != models.JobStatusOpen {
		return apperror.New(apperror.ErrCodeNotFound, "заказ не найден или закрыт для откликов")
	}
	for _, p := range f.proposals {
		if p.JobID == proposal.JobID && p.FreelancerID == proposal.FreelancerID {
			return apperror.New(apperror.ErrCodeConflict, "вы уже отправили отклик на этот заказ")
		}
	}
	proposal.ID = uuid.New()
	proposal.Status = models.ProposalStatusPending
	f.proposals[proposal.ID] = proposal
	return nil
}

func (f *fakeProposalStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	if p, ok := f.proposals[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProposalNotFound
}

func (f *fakeProposalStore) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProposalStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error) {
	var result []models.Proposal
	for _, p := range f.proposals {
		if p.JobID == jobID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProposalStore) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var result []models.Proposal
	for _, p := range f.proposals {
		if p.FreelancerID == freelancerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProposalStore) Accept(ctx context.Context, proposalID uuid.UUID, finalAmount *float64) (*models.Proposal, error) {
	proposal, ok := f.proposals[proposalID]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	if !models.CanProposalTransition(proposal.Status, models.ProposalStatusAccepted) {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "отклик уже обработан")
	}
	job := f.jobs.jobs[proposal.JobID]
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "по заказу уже нельзя принимать отклики")
	}

	proposal.Status = models.ProposalStatusAccepted
	if finalAmount != nil {
		proposal.BidAmount = *finalAmount
	}
	for _, sibling := range f.proposals {
		if sibling.JobID == proposal.JobID && sibling.ID != proposal.ID && sibling.Status != models.ProposalStatusAccepted {
			sibling.Status = models.ProposalStatusRejected
		}
	}
	job.Status = models.JobStatusInProgress
	f.counterBids.closePendingForJob(proposal.JobID, f)
	return proposal, nil
}

func (f *fakeProposalStore) Reject(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	proposal, ok := f.proposals[proposalID]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	if !models.CanProposalTransition(proposal.Status, models.ProposalStatusRejected) {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "отклик уже обработан")
	}
	proposal.Status = models.ProposalStatusRejected
	f.counterBids.closePendingForProposal(proposal.ID)
	return proposal, nil
}

type fakeCounterBidStore struct {
	proposals   *fakeProposalStore
	counterBids map[uuid.UUID]*models.CounterBid
}

func (f *fakeCounterBidStore) closePendingForProposal(proposalID uuid.UUID) {
	for _, cb := range f.counterBids {
		if cb.ProposalID == proposalID && cb.Status == models.CounterBidStatusPending {
			cb.Status = models.CounterBidStatusClosed
		}
	}
}

func (f *fakeCounterBidStore) closePendingForJob(jobID uuid.UUID, proposals *fakeProposalStore) {
	for _, cb := range f.counterBids {
		p, ok := proposals.proposals[cb.ProposalID]
		if ok && p.JobID == jobID && cb.Status == models.CounterBidStatusPending {
			cb.Status = models.CounterBidStatusClosed
		}
	}
}

func (f *fakeCounterBidStore) supersedeOthers(proposalID, exceptID uuid.UUID) {
	for _, cb := range f.counterBids {
		if cb.ProposalID == proposalID && cb.ID != exceptID && cb.Status == models.CounterBidStatusPending {
			cb.Status = models.CounterBidStatusSuperseded
		}
	}
}

func (f *fakeCounterBidStore) Create(ctx context.Context, cb *models.CounterBid) error {
	proposal, ok := f.proposals.proposals[cb.ProposalID]
	if !ok {
		return apperror.ErrProposalNotFound
	}
	if proposal.Status != models.ProposalStatusPending {
		return apperror.New(apperror.ErrCodeInvalidState, "контрпредложение можно создать только по отклику в ожидании")
	}
	f.supersedeOthers(cb.ProposalID, uuid.Nil)
	cb.ID = uuid.New()
	cb.Status = models.CounterBidStatusPending
	f.counterBids[cb.ID] = cb

	proposal.Status = models.ProposalStatusCountered
	proposal.HasCounterBid = true
	amount := cb.CounterAmount
	proposal.LatestCounterAmount = &amount
	return nil
}

func (f *fakeCounterBidStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CounterBid, error) {
	if cb, ok := f.counterBids[id]; ok {
		return cb, nil
	}
	return nil, apperror.ErrCounterBidNotFound
}

func (f *fakeCounterBidStore) Accept(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error) {
	cb, ok := f.counterBids[counterBidID]
	if !ok {
		return nil, nil, apperror.ErrCounterBidNotFound
	}
	if cb.Status != models.CounterBidStatusPending {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState, "контрпредложение уже обработано")
	}
	cb.Status = models.CounterBidStatusAccepted
	proposal, err := f.proposals.Accept(ctx, cb.ProposalID, &cb.CounterAmount)
	if err != nil {
		return nil, nil, err
	}
	return cb, proposal, nil
}

func (f *fakeCounterBidStore) Reject(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error) {
	cb, ok := f.counterBids[counterBidID]
	if !ok {
		return nil, nil, apperror.ErrCounterBidNotFound
	}
	if cb.Status != models.CounterBidStatusPending {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState, "контрпредложение уже обработано")
	}
	cb.Status = models.CounterBidStatusRejected

	proposal := f.proposals.proposals[cb.ProposalID]
	proposal.Status = models.ProposalStatusPending
	proposal.HasCounterBid = false
	proposal.LatestCounterAmount = nil
	return cb, proposal, nil
}

func (f *fakeCounterBidStore) Counter(ctx context.Context, counterBidID uuid.UUID, newCB *models.CounterBid) (*models.CounterBid, error) {
	cb, ok := f.counterBids[counterBidID]
	if !ok {
		return nil, apperror.ErrCounterBidNotFound
	}
	if cb.Status != models.CounterBidStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "контрпредложение уже обработано")
	}
	cb.Status = models.CounterBidStatusCountered
	f.supersedeOthers(cb.ProposalID, cb.ID)

	newCB.ID = uuid.New()
	newCB.ProposalID = cb.ProposalID
	newCB.FromUserID = cb.ToUserID
	newCB.ToUserID = cb.FromUserID
	newCB.Status = models.CounterBidStatusPending
	f.counterBids[newCB.ID] = newCB

	proposal := f.proposals.proposals[cb.ProposalID]
	proposal.Status = models.ProposalStatusCountered
	proposal.HasCounterBid = true
	amount := newCB.CounterAmount
	proposal.LatestCounterAmount = &amount
	return newCB, nil
}

func (f *fakeCounterBidStore) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.CounterBid, error) {
	var result []models.CounterBid
	for _, cb := range f.counterBids {
		if cb.ProposalID == proposalID {
			result = append(result, *cb)
		}
	}
	return result, nil
}

func (f *fakeCounterBidStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CounterBid, error) {
	var result []models.CounterBid
	for _, cb := range f.counterBids {
		if cb.FromUserID == userID || cb.ToUserID == userID {
			result = append(result, *cb)
		}
	}
	return result, nil
}

// negotiationFixture собирает сервис с фейковыми хранилищами
// и заранее созданными заказчиком, исполнителем и открытым заказом.
type negotiationFixture struct {
	service     *NegotiationService
	users       *fakeUserStore
	jobs        *fakeJobStore
	proposals   *fakeProposalStore
	counterBids *fakeCounterBidStore

	client     *models.User
	freelancer *models.User
	job        *models.Job
}

func newNegotiationFixture() *negotiationFixture {
	users := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	jobs := &fakeJobStore{jobs: make(map[uuid.UUID]*models.Job)}
	proposals := &fakeProposalStore{jobs: jobs, proposals: make(map[uuid.UUID]*models.Proposal)}
	counterBids := &fakeCounterBidStore{proposals: proposals, counterBids: make(map[uuid.UUID]*models.CounterBid)}
	proposals.counterBids = counterBids

	client := &models.User{ID: uuid.New(), Email: "client@example.com", Role: models.RoleClient}
	freelancer := &models.User{ID: uuid.New(), Email: "freelancer@example.com", Role: models.RoleFreelancer}
	users.users[client.ID] = client
	users.users[freelancer.ID] = freelancer

	job := &models.Job{
		ID:       uuid.New(),
		ClientID: client.ID,
		Title:    "Разработка API",
		Budget:   50000,
		Status:   models.JobStatusOpen,
	}
	jobs.jobs[job.ID] = job

	return &negotiationFixture{
		service:     NewNegotiationService(proposals, counterBids, jobs, users, 168*time.Hour),
		users:       users,
		jobs:        jobs,
		proposals:   proposals,
		counterBids: counterBids,
		client:      client,
		freelancer:  freelancer,
		job:         job,
	}
}

func (f *negotiationFixture) addFreelancer() *models.User {
	u := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: models.RoleFreelancer}
	f.users.users[u.ID] = u
	return u
}

func (f *negotiationFixture) submit(t *testing.T, freelancer *models.User, amount float64) *models.Proposal {
	t.Helper()
	proposal, err := f.service.SubmitProposal(context.Background(), SubmitProposalInput{
		JobID:        f.job.ID,
		FreelancerID: freelancer.ID,
		CoverLetter:  "Готов взяться за задачу, есть опыт похожих проектов",
		BidAmount:    amount,
	})
	if err != nil {
		t.Fatalf("не удалось создать отклик: %v", err)
	}
	return proposal
}

func TestNegotiationService_SubmitProposal(t *testing.T) {
	f := newNegotiationFixture()

	proposal := f.submit(t, f.freelancer, 45000)

	if proposal.Status != models.ProposalStatusPending {
		t.Fatalf("ожидался статус pending, получили %s", proposal.Status)
	}
	if proposal.HasCounterBid {
		t.Fatalf("у нового отклика не должно быть контрпредложений")
	}
}

func TestNegotiationService_SubmitProposal_ClientForbidden(t *testing.T) {
	f := newNegotiationFixture()

	_, err := f.service.SubmitProposal(context.Background(), SubmitProposalInput{
		JobID:        f.job.ID,
		FreelancerID: f.client.ID,
		CoverLetter:  "Хочу откликнуться на собственный заказ",
		BidAmount:    1000,
	})
	if !apperror.IsForbidden(err) {
		t.Fatalf("заказчик не может отправлять отклики, получили: %v", err)
	}
}

func TestNegotiationService_SubmitProposal_Duplicate(t *testing.T) {
	f := newNegotiationFixture()
	f.submit(t, f.freelancer, 45000)

	_, err := f.service.SubmitProposal(context.Background(), SubmitProposalInput{
		JobID:        f.job.ID,
		FreelancerID: f.freelancer.ID,
		CoverLetter:  "Повторный отклик на тот же заказ",
		BidAmount:    40000,
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("ожидался конфликт повторного отклика, получили: %v", err)
	}
}

func TestNegotiationService_SubmitProposal_ClosedJob(t *testing.T) {
	f := newNegotiationFixture()
	f.job.Status = models.JobStatusClosed

	_, err := f.service.SubmitProposal(context.Background(), SubmitProposalInput{
		JobID:        f.job.ID,
		FreelancerID: f.freelancer.ID,
		CoverLetter:  "Отклик на закрытый заказ",
		BidAmount:    45000,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("закрытый заказ не должен принимать отклики, получили: %v", err)
	}
}

func TestNegotiationService_AcceptProposal(t *testing.T) {
	f := newNegotiationFixture()
	winner := f.submit(t, f.freelancer, 45000)
	loser := f.submit(t, f.addFreelancer(), 40000)

	updated, err := f.service.UpdateProposalStatus(context.Background(), winner.ID, f.client.ID, models.ProposalStatusAccepted)
	if err != nil {
		t.Fatalf("принятие отклика вернуло ошибку: %v", err)
	}

	if updated.Status != models.ProposalStatusAccepted {
		t.Fatalf("ожидался статус accepted, получили %s", updated.Status)
	}
	if f.proposals.proposals[loser.ID].Status != models.ProposalStatusRejected {
		t.Fatalf("конкурирующий отклик должен быть отклонён")
	}
	if f.job.Status != models.JobStatusInProgress {
		t.Fatalf("заказ должен перейти в in_progress, получили %s", f.job.Status)
	}
}

func TestNegotiationService_AcceptProposal_SecondAcceptFails(t *testing.T) {
	f := newNegotiationFixture()
	first := f.submit(t, f.freelancer, 45000)
	second := f.submit(t, f.addFreelancer(), 40000)

	if _, err := f.service.UpdateProposalStatus(context.Background(), first.ID, f.client.ID, models.ProposalStatusAccepted); err != nil {
		t.Fatalf("первое принятие вернуло ошибку: %v", err)
	}

	_, err := f.service.UpdateProposalStatus(context.Background(), second.ID, f.client.ID, models.ProposalStatusAccepted)
	if !apperror.IsInvalidState(err) {
		t.Fatalf("второе принятие должно упасть с ошибкой состояния, получили: %v", err)
	}
}

func TestNegotiationService_RejectProposal(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	updated, err := f.service.UpdateProposalStatus(context.Background(), proposal.ID, f.client.ID, models.ProposalStatusRejected)
	if err != nil {
		t.Fatalf("отклонение вернуло ошибку: %v", err)
	}
	if updated.Status != models.ProposalStatusRejected {
		t.Fatalf("ожидался статус rejected, получили %s", updated.Status)
	}
	// Отклонение не трогает заказ.
	if f.job.Status != models.JobStatusOpen {
		t.Fatalf("заказ должен остаться open, получили %s", f.job.Status)
	}

	// Повторное отклонение — ошибка состояния, а не тихий успех.
	_, err = f.service.UpdateProposalStatus(context.Background(), proposal.ID, f.client.ID, models.ProposalStatusRejected)
	if !apperror.IsInvalidState(err) {
		t.Fatalf("повторное отклонение должно вернуть ошибку состояния, получили: %v", err)
	}
}

func TestNegotiationService_UpdateProposalStatus_NotOwner(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	stranger := f.addFreelancer()
	_, err := f.service.UpdateProposalStatus(context.Background(), proposal.ID, stranger.ID, models.ProposalStatusAccepted)
	if !apperror.IsForbidden(err) {
		t.Fatalf("чужой пользователь не может менять статус отклика, получили: %v", err)
	}
}

func TestNegotiationService_UpdateProposalStatus_InvalidStatus(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	_, err := f.service.UpdateProposalStatus(context.Background(), proposal.ID, f.client.ID, "countered")
	if !apperror.IsValidation(err) {
		t.Fatalf("допустимы только accepted и rejected, получили: %v", err)
	}
}

func TestNegotiationService_CreateCounterBid(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	if cb.ToUserID != f.freelancer.ID {
		t.Fatalf("контрпредложение должно быть адресовано исполнителю")
	}
	if proposal.Status != models.ProposalStatusCountered {
		t.Fatalf("отклик должен перейти в countered, получили %s", proposal.Status)
	}
	if proposal.LatestCounterAmount == nil || *proposal.LatestCounterAmount != 40000 {
		t.Fatalf("на отклике должна сохраниться последняя контрсумма")
	}
	if cb.ExpiresAt.Before(time.Now()) {
		t.Fatalf("срок действия контрпредложения должен быть в будущем")
	}
}

func TestNegotiationService_CreateCounterBid_NotOwner(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	_, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.freelancer.ID,
		CounterAmount: 40000,
	})
	if !apperror.IsForbidden(err) {
		t.Fatalf("контрпредложение создаёт только владелец заказа, получили: %v", err)
	}
}

func TestNegotiationService_CreateCounterBid_NonPendingProposal(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	if _, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	}); err != nil {
		t.Fatalf("первое контрпредложение вернуло ошибку: %v", err)
	}

	// Отклик уже countered, прямое повторное создание запрещено.
	_, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 38000,
	})
	if !apperror.IsInvalidState(err) {
		t.Fatalf("контрпредложение по не-pending отклику должно упасть, получили: %v", err)
	}
}

func TestNegotiationService_RespondCounterBid_Accept(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)
	other := f.submit(t, f.addFreelancer(), 42000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	resp, err := f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.freelancer.ID,
		Action:       CounterBidActionAccept,
	})
	if err != nil {
		t.Fatalf("принятие контрпредложения вернуло ошибку: %v", err)
	}

	if resp.CounterBid.Status != models.CounterBidStatusAccepted {
		t.Fatalf("контрпредложение должно стать accepted, получили %s", resp.CounterBid.Status)
	}
	if resp.Proposal.Status != models.ProposalStatusAccepted {
		t.Fatalf("отклик должен стать accepted, получили %s", resp.Proposal.Status)
	}
	if resp.Proposal.BidAmount != 40000 {
		t.Fatalf("итоговая сумма должна равняться контрсумме, получили %f", resp.Proposal.BidAmount)
	}
	if f.job.Status != models.JobStatusInProgress {
		t.Fatalf("заказ должен перейти в in_progress")
	}
	if f.proposals.proposals[other.ID].Status != models.ProposalStatusRejected {
		t.Fatalf("конкурирующий отклик должен быть отклонён")
	}
}

func TestNegotiationService_RespondCounterBid_Reject(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	resp, err := f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.freelancer.ID,
		Action:       CounterBidActionReject,
	})
	if err != nil {
		t.Fatalf("отклонение контрпредложения вернуло ошибку: %v", err)
	}

	if resp.Proposal.Status != models.ProposalStatusPending {
		t.Fatalf("отклик должен вернуться в pending, получили %s", resp.Proposal.Status)
	}
	if resp.Proposal.HasCounterBid || resp.Proposal.LatestCounterAmount != nil {
		t.Fatalf("признаки контрпредложения должны быть сброшены")
	}
	// Переговоры можно начать заново.
	if _, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 41000,
	}); err != nil {
		t.Fatalf("после отклонения можно создать новое контрпредложение: %v", err)
	}
}

func TestNegotiationService_RespondCounterBid_Counter(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	newAmount := 43000.0
	resp, err := f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID:     cb.ID,
		ActorID:          f.freelancer.ID,
		Action:           CounterBidActionCounter,
		NewCounterAmount: &newAmount,
	})
	if err != nil {
		t.Fatalf("встречное предложение вернуло ошибку: %v", err)
	}

	// Направление разворачивается: теперь отвечает заказчик.
	if resp.CounterBid.FromUserID != f.freelancer.ID || resp.CounterBid.ToUserID != f.client.ID {
		t.Fatalf("встречное предложение должно идти от исполнителя заказчику")
	}
	if resp.CounterBid.Status != models.CounterBidStatusPending {
		t.Fatalf("новое контрпредложение должно быть pending")
	}
	if f.counterBids.counterBids[cb.ID].Status != models.CounterBidStatusCountered {
		t.Fatalf("исходное контрпредложение должно стать countered")
	}
	if proposal.LatestCounterAmount == nil || *proposal.LatestCounterAmount != newAmount {
		t.Fatalf("последняя контрсумма должна обновиться")
	}

	// Заказчик принимает встречное предложение.
	acceptResp, err := f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: resp.CounterBid.ID,
		ActorID:      f.client.ID,
		Action:       CounterBidActionAccept,
	})
	if err != nil {
		t.Fatalf("принятие встречного предложения вернуло ошибку: %v", err)
	}
	if acceptResp.Proposal.BidAmount != newAmount {
		t.Fatalf("итоговая сумма должна равняться встречной, получили %f", acceptResp.Proposal.BidAmount)
	}
}

func TestNegotiationService_RespondCounterBid_CounterRequiresAmount(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	_, err = f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.freelancer.ID,
		Action:       CounterBidActionCounter,
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("встречное предложение без суммы должно упасть на валидации, получили: %v", err)
	}
}

func TestNegotiationService_RespondCounterBid_WrongRecipient(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	// Автор не может ответить на собственное контрпредложение.
	_, err = f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.client.ID,
		Action:       CounterBidActionAccept,
	})
	if !apperror.IsForbidden(err) {
		t.Fatalf("отвечать может только получатель, получили: %v", err)
	}
}

func TestNegotiationService_RespondCounterBid_AlreadyHandled(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}

	if _, err := f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.freelancer.ID,
		Action:       CounterBidActionReject,
	}); err != nil {
		t.Fatalf("первое отклонение вернуло ошибку: %v", err)
	}

	_, err = f.service.RespondToCounterBid(context.Background(), RespondToCounterBidInput{
		CounterBidID: cb.ID,
		ActorID:      f.freelancer.ID,
		Action:       CounterBidActionAccept,
	})
	if !apperror.IsInvalidState(err) {
		t.Fatalf("ответ на обработанное контрпредложение должен упасть, получили: %v", err)
	}
}

func TestNegotiationService_ListJobProposals_OwnerOnly(t *testing.T) {
	f := newNegotiationFixture()
	f.submit(t, f.freelancer, 45000)

	if _, err := f.service.ListJobProposals(context.Background(), f.job.ID, f.freelancer.ID); !apperror.IsForbidden(err) {
		t.Fatalf("список откликов доступен только владельцу, получили: %v", err)
	}

	proposals, err := f.service.ListJobProposals(context.Background(), f.job.ID, f.client.ID)
	if err != nil {
		t.Fatalf("список откликов вернул ошибку: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("ожидался один отклик, получили %d", len(proposals))
	}
}

func TestNegotiationService_ListUserCounterBids(t *testing.T) {
	f := newNegotiationFixture()
	proposal := f.submit(t, f.freelancer, 45000)

	cb, err := f.service.CreateCounterBid(context.Background(), CreateCounterBidInput{
		ProposalID:    proposal.ID,
		FromUserID:    f.client.ID,
		CounterAmount: 40000,
	})
	if err != nil {
		t.Fatalf("создание контрпредложения вернуло ошибку: %v", err)
	}
	cb.ExpiresAt = time.Now().Add(-time.Hour)

	forFreelancer, err := f.service.ListUserCounterBids(context.Background(), f.freelancer.ID)
	if err != nil {
		t.Fatalf("список контрпредложений вернул ошибку: %v", err)
	}
	if len(forFreelancer) != 1 {
		t.Fatalf("ожидалось одно контрпредложение, получили %d", len(forFreelancer))
	}
	if forFreelancer[0].Direction != models.CounterBidDirectionReceived {
		t.Fatalf("для исполнителя направление received, получили %s", forFreelancer[0].Direction)
	}
	if !forFreelancer[0].IsExpired {
		t.Fatalf("просроченное контрпредложение должно быть помечено")
	}

	forClient, err := f.service.ListUserCounterBids(context.Background(), f.client.ID)
	if err != nil {
		t.Fatalf("список контрпредложений вернул ошибку: %v", err)
	}
	if forClient[0].Direction != models.CounterBidDirectionSent {
		t.Fatalf("для заказчика направление sent, получили %s", forClient[0].Direction)
	}
}
