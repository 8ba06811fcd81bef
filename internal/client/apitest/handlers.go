package apitest

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Email != s.admin.Email || bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	tok, err := s.issue(time.Now().Add(s.tokenTTL))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": s.admin})
}

// queryState rebuilds the list query from the request the way the real API
// reads it.
func queryState(r *http.Request) models.QueryState {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, _ := strconv.Atoi(q.Get("page"))
	return models.NewQueryState(limit).
		WithSearch(q.Get("search")).
		WithStatus(models.Status(q.Get("status"))).
		WithPage(page)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := models.FilterPage(s.users, queryState(r))
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"users": res.Items,
		"total": res.Total,
		"page":  res.Page,
		"pages": res.Pages,
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decode(r, &u); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userIndex(u.CardID) >= 0 {
		writeDetail(w, http.StatusBadRequest, "Card ID already registered")
		return
	}
	s.nextID++
	u.ID = s.nextID
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	s.users = append(s.users, u)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created", "user": u})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	cardID := cardParam(r)
	var u models.User
	if err := decode(r, &u); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(cardID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	u.ID = s.users[i].ID
	u.CardID = cardID
	s.users[i] = u
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	cardID := cardParam(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(cardID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// cardParam returns the unescaped card id; chi matches on the raw path when
// the id contains escaped characters.
func cardParam(r *http.Request) string {
	raw := chi.URLParam(r, "card_id")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (s *Server) userIndex(cardID string) int {
	for i, u := range s.users {
		if u.CardID == cardID {
			return i
		}
	}
	return -1
}

func (s *Server) listClasses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.classes)
}

func (s *Server) createClass(w http.ResponseWriter, r *http.Request) {
	var c models.Class
	if err := decode(r, &c); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	s.nextID++
	c.ID = s.nextID
	s.classes = append(s.classes, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.payments)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decode(r, &p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	s.nextID++
	p.ID = s.nextID
	if p.Status == "" {
		p.Status = models.PaymentCompleted
	}
	s.payments = append(s.payments, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config())
}

func (s *Server) setConfig(w http.ResponseWriter, r *http.Request) {
	var setting models.ConfigSetting
	if err := decode(r, &setting); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch setting.Key {
	case "gym_name":
		s.config.GymName = setting.Value
	case "gym_logo":
		s.config.LogoURL = setting.Value
	default:
		writeDetail(w, http.StatusBadRequest, "Unknown setting "+setting.Key)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Config updated"})
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "start and end are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.metrics)
}

func (s *Server) usersReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := models.UsersReport{Users: append([]models.User{}, s.users...), TotalUsers: len(s.users)}
	for _, u := range s.users {
		if u.IsActive() {
			rep.ActiveUsers++
		}
		switch u.Membership {
		case models.MembershipPremium:
			rep.MembershipDistribution.Premium++
		case models.MembershipVIP:
			rep.MembershipDistribution.VIP++
		default:
			rep.MembershipDistribution.Basic++
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) checkAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(req.CardID)
	switch {
	case i < 0:
		writeJSON(w, http.StatusOK, models.AccessResult{Message: "Card not registered"})
	case !s.users[i].IsActive():
		writeJSON(w, http.StatusOK, models.AccessResult{Message: "Inactive membership"})
	default:
		writeJSON(w, http.StatusOK, models.AccessResult{Access: true, Message: "Welcome, " + s.users[i].Name + "!"})
	}
}
