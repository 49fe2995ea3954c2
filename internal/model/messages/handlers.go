package messages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/entity/household"
	"max.ks1230/income-planner/internal/entity/income"
	"max.ks1230/income-planner/internal/entity/user"
	"max.ks1230/income-planner/internal/logger"
	"max.ks1230/income-planner/internal/model/coordinator"
	"max.ks1230/income-planner/internal/model/projection"
	"max.ks1230/income-planner/internal/model/records"
	"max.ks1230/income-planner/internal/model/tax"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello, %s! Loading your income plan..."
	loveToTalkMessage     = "I would love to talk about it more!"
	okMessage             = "Gotcha!"
	byeMessage            = "Signed out. Your plan stays saved."
	notSignedInMessage    = "You are not signed in. Send /start first"
	loadingMessage        = "Your plan is still loading, try again in a moment"
	noHouseholdMessage    = "No household data yet: add yourself with a birth date first"
	nothingToShowMessage  = "Nothing to show yet"
	savedMessage          = "Saved"
	cancelledMessage      = "Cancelled, nothing changed"
	noPendingMessage      = "Nothing to confirm"
	staleRequestMessage   = "That request has expired, send /reinit again"
	seededMessage         = "Your plan was filled with your initial income for %d years"

	incorrectUsageMessage   = "That is an incorrect command usage"
	incorrectYearMessage    = "The year is incorrect. Should be yyyy"
	incorrectFieldMessage   = "Choose self or partner"
	cannotLoadFamilyMessage = "Can't read your household atm. Try later"
	cannotSaveMessage       = "Can't save your plan atm. Your edits are kept, try /save later"
	reapplyPromptMessage    = "This will set self=%d and partner=%d for %d years. /confirm or /cancel"
	reapplySeedMessage      = "This will fill %d years with self=%d and partner=%d. /confirm or /cancel"
)

const (
	startCommand   = "/start"
	logoutCommand  = "/logout"
	statusCommand  = "/status"
	tableCommand   = "/table"
	setCommand     = "/set"
	reinitCommand  = "/reinit"
	confirmCommand = "/confirm"
	cancelCommand  = "/cancel"
	netCommand     = "/net"
	saveCommand    = "/save"
)

type config interface {
	TableYears() int
}

type handler func(ctx context.Context, arg string, msg Message) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	sessions    *coordinator.Manager
	family      documentReader
	config      config

	mu      sync.Mutex
	pending map[int64]*coordinator.ReapplyRequest
}

func newHandler(sessions *coordinator.Manager, family documentReader, config config) *HandlerService {
	res := &HandlerService{
		sessions: sessions,
		family:   family,
		config:   config,
		pending:  make(map[int64]*coordinator.ReapplyRequest),
	}
	res.handlersMap = newMap(res)
	return res
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[logoutCommand] = s.handleLogout
	m[statusCommand] = s.handleStatus
	m[tableCommand] = s.handleTable
	m[setCommand] = s.handleSet
	m[reinitCommand] = s.handleReinit
	m[confirmCommand] = s.handleConfirm
	m[cancelCommand] = s.handleCancel
	m[netCommand] = s.handleNet
	m[saveCommand] = s.handleSave

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) HandleMessage(ctx context.Context, msg Message) (string, error) {
	cmd, arg := parseCommand(msg.Text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, msg)
	}
	return dontUnderstandMessage, nil
}

func ownerID(msg Message) string {
	return strconv.FormatInt(msg.UserID, 10)
}

func (s *HandlerService) handleStart(_ context.Context, _ string, msg Message) (string, error) {
	owner := user.FromTelegram(msg.UserID, msg.UserName, msg.FirstName)
	s.sessions.SignIn(owner)
	return fmt.Sprintf(helloMessage, owner.DisplayName), nil
}

func (s *HandlerService) handleLogout(_ context.Context, _ string, msg Message) (string, error) {
	s.dropPending(msg.UserID)
	s.sessions.SignOut(ownerID(msg))
	return byeMessage, nil
}

func (s *HandlerService) handleStatus(_ context.Context, _ string, msg Message) (string, error) {
	c, ok := s.sessions.Session(ownerID(msg))
	if !ok {
		return notSignedInMessage, nil
	}
	return formatStatus(c.Status(), c.Timeline().Len()), nil
}

func (s *HandlerService) handleTable(ctx context.Context, arg string, msg Message) (string, error) {
	c, resp, ok := s.editableSession(msg)
	if !ok {
		return resp, nil
	}
	id, resp, err := s.identity(ctx, msg)
	if err != nil || resp != "" {
		return resp, err
	}

	limit := s.config.TableYears()
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return incorrectUsageMessage, nil
		}
		limit = n
	}

	notes := make([]string, 0, 1)
	seeded, err := c.Initialize(ctx, id)
	if err != nil {
		logger.Error("failed to seed income timeline", zap.Error(err), zap.Int64("userID", msg.UserID))
	}
	if seeded {
		notes = append(notes, fmt.Sprintf(seededMessage, c.Timeline().Len()))
	}

	years := projection.Window(c.Years().YearRange(id.SelfBirthYear), limit)
	if len(years) == 0 {
		return nothingToShowMessage, nil
	}
	rows := projection.Build(c.Timeline(), id, years)
	notes = append(notes, projection.Render(rows, id.HasPartner()))
	return strings.Join(notes, "\n\n"), nil
}

func (s *HandlerService) handleSet(_ context.Context, arg string, msg Message) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 3 {
		return incorrectUsageMessage, nil
	}
	year, ok := records.ParseYear(args[0])
	if !ok {
		return incorrectYearMessage, nil
	}
	field, ok := income.ParseField(args[1])
	if !ok {
		return incorrectFieldMessage, nil
	}
	value := records.ParseInput(args[2])

	c, resp, ok := s.editableSession(msg)
	if !ok {
		return resp, nil
	}
	if err := c.UpdateCell(year, field, value); err != nil {
		return sessionMessage(err), nil
	}
	return fmt.Sprintf("%s %d %s = %d", okMessage, year, field, value), nil
}

func (s *HandlerService) handleReinit(ctx context.Context, arg string, msg Message) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 2 {
		return incorrectUsageMessage, nil
	}
	selfValue, partnerValue := records.ParseInput(args[0]), records.ParseInput(args[1])

	c, resp, ok := s.editableSession(msg)
	if !ok {
		return resp, nil
	}
	id, resp, err := s.identity(ctx, msg)
	if err != nil || resp != "" {
		return resp, err
	}

	req, err := c.RequestReapply(selfValue, partnerValue, id.SelfBirthYear)
	if errors.Is(err, coordinator.ErrNothingToApply) {
		return nothingToShowMessage, nil
	}
	if err != nil {
		return sessionMessage(err), nil
	}

	s.mu.Lock()
	s.pending[msg.UserID] = req
	s.mu.Unlock()

	if req.Seeds {
		return fmt.Sprintf(reapplySeedMessage, req.AffectedYears, req.SelfValue, req.PartnerValue), nil
	}
	return fmt.Sprintf(reapplyPromptMessage, req.SelfValue, req.PartnerValue, req.AffectedYears), nil
}

func (s *HandlerService) handleConfirm(ctx context.Context, _ string, msg Message) (string, error) {
	req, ok := s.takePending(msg.UserID)
	if !ok {
		return noPendingMessage, nil
	}
	err := req.Confirm(ctx)
	if errors.Is(err, coordinator.ErrStaleRequest) {
		return staleRequestMessage, nil
	}
	if err != nil {
		return cannotSaveMessage, errors.Wrap(err, "handle confirm")
	}
	return okMessage, nil
}

func (s *HandlerService) handleCancel(_ context.Context, _ string, msg Message) (string, error) {
	if _, ok := s.takePending(msg.UserID); !ok {
		return noPendingMessage, nil
	}
	return cancelledMessage, nil
}

func (s *HandlerService) handleNet(_ context.Context, arg string, _ Message) (string, error) {
	if arg == "" {
		return incorrectUsageMessage, nil
	}
	gross := records.ParseInput(arg)
	return formatBreakdown(tax.Calculate(gross), tax.NetIncome(gross)), nil
}

func (s *HandlerService) handleSave(ctx context.Context, _ string, msg Message) (string, error) {
	c, resp, ok := s.editableSession(msg)
	if !ok {
		return resp, nil
	}
	if err := c.Save(ctx); err != nil {
		if errors.Is(err, coordinator.ErrNotSynced) || errors.Is(err, coordinator.ErrNotAuthenticated) {
			return sessionMessage(err), nil
		}
		return cannotSaveMessage, errors.Wrap(err, "handle save")
	}
	return savedMessage, nil
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ Message) (string, error) {
	return loveToTalkMessage, nil
}

func (s *HandlerService) editableSession(msg Message) (*coordinator.Coordinator, string, bool) {
	c, ok := s.sessions.Session(ownerID(msg))
	if !ok {
		return nil, notSignedInMessage, false
	}
	if c.Status().State == coordinator.Loading {
		return nil, loadingMessage, false
	}
	return c, "", true
}

// identity returns a reply instead of an error when the household is simply not set up yet.
func (s *HandlerService) identity(ctx context.Context, msg Message) (household.Identity, string, error) {
	raw, found, err := s.family.Get(ctx, ownerID(msg), document.KeyFamilyData)
	if err != nil {
		return household.Identity{}, cannotLoadFamilyMessage, errors.Wrap(err, "load household")
	}
	if !found {
		return household.Identity{}, noHouseholdMessage, nil
	}
	id, ok := decodeIdentity(raw)
	if !ok {
		return household.Identity{}, noHouseholdMessage, nil
	}
	return id, "", nil
}

func (s *HandlerService) takePending(userID int64) (*coordinator.ReapplyRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.pending[userID]
	delete(s.pending, userID)
	return req, ok
}

func (s *HandlerService) dropPending(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

func sessionMessage(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrNotAuthenticated):
		return notSignedInMessage
	case errors.Is(err, coordinator.ErrNotSynced):
		return loadingMessage
	}
	return cannotSaveMessage
}
