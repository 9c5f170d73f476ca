package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/internal/metrics"
	"trustlens/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fraud reason messages, appended in fixed rule order (IP, recipient,
// odd hours, behavioral, geo drift). The order is part of the contract.
const (
	reasonOddHours   = "Transaction During Odd Hours (12 AM - 4 AM)"
	reasonBehavioral = "Abnormal Amount (Behavioral)"
	reasonGeoDrift   = "Geo Drift Detected"
)

// FraudOptions holds the fixed detection thresholds and seed data.
type FraudOptions struct {
	WindowSize     int
	ZThreshold     float64
	MaxDriftKm     float64
	BlacklistedIPs []string
	DefaultPhone   string
}

// FraudServiceImpl implements ports.FraudService.
//
// Shared state rules: the read-detect-append sequence is serialized per card
// type, so two concurrent evaluations for the same card type cannot both read
// a pre-update history. Distinct card types proceed fully in parallel. On a
// storage write failure the in-process history and location state has already
// been updated and is not rolled back (last-write-wins, no cross-store
// transactionality).
type FraudServiceImpl struct {
	txRepo ports.TransactionRepository
	blRepo ports.BlacklistRepository
	opts   FraudOptions
	ipSet  map[string]struct{}
	log    zerolog.Logger
	now    func() time.Time // swapped in tests to pin the odd-hours rule

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex

	stateMu      sync.RWMutex
	recorded     []domain.Transaction
	lastLocation map[string]string
}

// NewFraudService creates a new FraudServiceImpl.
func NewFraudService(
	txRepo ports.TransactionRepository,
	blRepo ports.BlacklistRepository,
	opts FraudOptions,
	log zerolog.Logger,
) *FraudServiceImpl {
	ipSet := make(map[string]struct{}, len(opts.BlacklistedIPs))
	for _, ip := range opts.BlacklistedIPs {
		ipSet[ip] = struct{}{}
	}
	return &FraudServiceImpl{
		txRepo:       txRepo,
		blRepo:       blRepo,
		opts:         opts,
		ipSet:        ipSet,
		log:          log,
		now:          time.Now,
		keyLocks:     make(map[string]*sync.Mutex),
		lastLocation: make(map[string]string),
	}
}

// Evaluate runs every detection rule against the submitted transaction,
// records the decorated result, and updates blacklist/location state.
func (s *FraudServiceImpl) Evaluate(ctx context.Context, req ports.EvaluateRequest) (*ports.EvaluateResult, error) {
	if req.CardType == "" {
		return nil, apperror.Validation("card_type is required")
	}
	if req.TransactionID == "" {
		return nil, apperror.Validation("transaction_id is required")
	}
	if req.RecipientAccount == "" {
		return nil, apperror.Validation("recipient_account_number is required")
	}

	// Serialize the read-detect-append sequence per card type.
	lock := s.lockFor(req.CardType)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	reasons := []string{}
	anomalous := false

	// Rule 1: blacklisted client IP.
	if _, hit := s.ipSet[req.ClientIP]; hit {
		reasons = append(reasons, fmt.Sprintf("Blacklisted IP: %s", req.ClientIP))
		anomalous = true
		metrics.RuleHitsTotal.WithLabelValues("blacklisted_ip").Inc()
	}

	// Rule 2: blacklisted recipient account. A read failure degrades to
	// not-blacklisted rather than aborting the evaluation.
	recipientListed, err := s.blRepo.IsListed(ctx, domain.EntryTypeAccount, req.RecipientAccount)
	if err != nil {
		s.log.Warn().Err(err).Str("recipient", req.RecipientAccount).Msg("blacklist check failed, treating as not listed")
		recipientListed = false
	}
	if recipientListed {
		reasons = append(reasons, fmt.Sprintf("Blacklisted Recipient: %s", req.RecipientAccount))
		anomalous = true
		metrics.RuleHitsTotal.WithLabelValues("blacklisted_recipient").Inc()
	}

	// Rule 3: odd hours, server local time.
	if oddHours(now) {
		reasons = append(reasons, reasonOddHours)
		anomalous = true
		metrics.RuleHitsTotal.WithLabelValues("odd_hours").Inc()
	}

	// Rule 4: behavioral z-score over this card type's history. A read
	// failure degrades to an empty window; the detector tolerates sparse data.
	past, err := s.txRepo.ListByCardType(ctx, req.CardType)
	if err != nil {
		s.log.Warn().Err(err).Str("card_type", req.CardType).Msg("history fetch failed, evaluating with empty window")
		past = nil
	}
	amounts := make([]float64, 0, len(past))
	for i := range past {
		amounts = append(amounts, past[i].Amount)
	}
	if behaviorAnomalous(amounts, req.Amount, s.opts.WindowSize, s.opts.ZThreshold) {
		reasons = append(reasons, reasonBehavioral)
		anomalous = true
		metrics.RuleHitsTotal.WithLabelValues("behavioral").Inc()
	}

	// Rule 5: geo drift against the last trusted location for this card type.
	s.stateMu.RLock()
	lastLoc := s.lastLocation[req.CardType]
	s.stateMu.RUnlock()
	if geoDrift(lastLoc, req.Location, s.opts.MaxDriftKm) {
		reasons = append(reasons, reasonGeoDrift)
		anomalous = true
		metrics.RuleHitsTotal.WithLabelValues("geo_drift").Inc()
	}

	phone := req.Phone
	if phone == "" {
		phone = s.opts.DefaultPhone
	}

	txn := &domain.Transaction{
		ID:               uuid.New(),
		TransactionID:    req.TransactionID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Location:         req.Location,
		CardType:         req.CardType,
		SenderAccount:    req.SenderAccount,
		RecipientAccount: req.RecipientAccount,
		ClientIP:         req.ClientIP,
		Timestamp:        now,
		Anomalous:        anomalous,
		FraudReasons:     reasons,
		Phone:            phone,
	}

	// Commit in-process state before the durable write. An anomalous
	// transaction must not move the location baseline.
	s.stateMu.Lock()
	if !anomalous {
		s.lastLocation[req.CardType] = req.Location
	}
	s.recorded = append(s.recorded, *txn)
	s.stateMu.Unlock()

	appendErr := s.txRepo.Append(ctx, txn)

	// Flag the recipient unless it was already listed (idempotent insert).
	if anomalous && !recipientListed {
		entry := &domain.BlacklistEntry{
			Type:      domain.EntryTypeAccount,
			Value:     req.RecipientAccount,
			Reasons:   reasons,
			AddedBy:   "system",
			CreatedAt: now,
		}
		if err := s.blRepo.Insert(ctx, entry); err != nil {
			s.log.Error().Err(err).Str("recipient", req.RecipientAccount).Msg("blacklist insert failed")
			if appendErr == nil {
				appendErr = fmt.Errorf("insert blacklist entry: %w", err)
			}
		} else {
			metrics.BlacklistInsertsTotal.WithLabelValues("engine").Inc()
		}
	}

	if appendErr != nil {
		// In-process state stays ahead of durable state here; see type docs.
		return nil, apperror.ErrStorageWrite(fmt.Errorf("append transaction: %w", appendErr))
	}

	verdict := "clean"
	if anomalous {
		verdict = "anomalous"
	}
	metrics.EvaluationsTotal.WithLabelValues(verdict).Inc()

	s.log.Info().
		Str("transaction_id", req.TransactionID).
		Str("card_type", req.CardType).
		Float64("amount", req.Amount).
		Bool("anomalous", anomalous).
		Strs("reasons", reasons).
		Msg("transaction evaluated")

	return &ports.EvaluateResult{
		Anomalous:   anomalous,
		Reasons:     reasons,
		Transaction: txn,
	}, nil
}

// AddBlacklistEntry records a manually flagged identifier. Insertion is
// idempotent per (type, value).
func (s *FraudServiceImpl) AddBlacklistEntry(ctx context.Context, entryType domain.EntryType, value, reason, addedBy string) error {
	if value == "" {
		return apperror.Validation("value is required")
	}
	if entryType != domain.EntryTypeAccount && entryType != domain.EntryTypeIP {
		return apperror.Validation("type must be account or ip")
	}
	if reason == "" {
		reason = "Manual addition"
	}

	entry := &domain.BlacklistEntry{
		Type:      entryType,
		Value:     value,
		Reasons:   []string{reason},
		AddedBy:   addedBy,
		CreatedAt: s.now(),
	}
	if err := s.blRepo.Insert(ctx, entry); err != nil {
		return apperror.ErrStorageWrite(fmt.Errorf("insert blacklist entry: %w", err))
	}

	metrics.BlacklistInsertsTotal.WithLabelValues("manual").Inc()

	s.log.Info().
		Str("type", string(entryType)).
		Str("value", value).
		Str("added_by", addedBy).
		Msg("blacklist entry added")

	return nil
}

// Recorded returns a copy of the in-process transaction history in capture
// order.
func (s *FraudServiceImpl) Recorded() []domain.Transaction {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make([]domain.Transaction, len(s.recorded))
	copy(out, s.recorded)
	return out
}

// LastRecorded returns the most recently evaluated transaction, or nil if
// nothing has been evaluated yet.
func (s *FraudServiceImpl) LastRecorded() *domain.Transaction {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if len(s.recorded) == 0 {
		return nil
	}
	last := s.recorded[len(s.recorded)-1]
	return &last
}

// lastKnownLocation exposes the location baseline for a card type (tests).
func (s *FraudServiceImpl) lastKnownLocation(cardType string) string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastLocation[cardType]
}

// lockFor returns the per-card-type evaluation lock, creating it on first use.
func (s *FraudServiceImpl) lockFor(cardType string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[cardType]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[cardType] = l
	}
	return l
}
