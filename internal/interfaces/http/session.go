package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

// Claves de la sesión.
const (
	sessionKeyCompany = "active_company_id"
	sessionKeyLastIP  = "last_ip"
	sessionKeyUser    = "user_id"
)

// LocalSession key de Fiber Locals para la sesión del request.
const LocalSession = "session"

// NewSessionStore crea el almacén de sesiones (cookie + almacenamiento en memoria de Fiber).
func NewSessionStore(cfg config.SessionConfig) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// fiberSession adapta una sesión de Fiber al puerto tenancy.Session.
type fiberSession struct {
	s         *session.Session
	destroyed bool
}

func (f *fiberSession) ActiveCompanyID() string {
	v, _ := f.s.Get(sessionKeyCompany).(string)
	return v
}

func (f *fiberSession) SetActiveCompanyID(id string) { f.s.Set(sessionKeyCompany, id) }

func (f *fiberSession) ClearActiveCompanyID() { f.s.Delete(sessionKeyCompany) }

func (f *fiberSession) LastIP() string {
	v, _ := f.s.Get(sessionKeyLastIP).(string)
	return v
}

func (f *fiberSession) SetLastIP(ip string) { f.s.Set(sessionKeyLastIP, ip) }

// renew cambia el ID de la sesión, descarta sus datos y la asocia al usuario.
func (f *fiberSession) renew(userID string) error {
	if err := f.s.Reset(); err != nil {
		return err
	}
	f.s.Set(sessionKeyUser, userID)
	return nil
}

// bindUser descarta la empresa y la IP guardadas si la sesión pertenece a otro usuario.
func (f *fiberSession) bindUser(userID string) {
	owner, _ := f.s.Get(sessionKeyUser).(string)
	if owner == userID {
		return
	}
	f.s.Delete(sessionKeyCompany)
	f.s.Delete(sessionKeyLastIP)
	f.s.Set(sessionKeyUser, userID)
}

// destroy elimina la sesión del almacén y la cookie del cliente.
func (f *fiberSession) destroy() error {
	f.destroyed = true
	return f.s.Destroy()
}

// SessionMiddleware carga la sesión del request y la guarda al terminar la cadena de handlers.
func SessionMiddleware(store *session.Store, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := store.Get(c)
		if err != nil {
			return err
		}
		fs := &fiberSession{s: s}
		c.Locals(LocalSession, fs)
		err = c.Next()
		if fs.destroyed {
			return err
		}
		if saveErr := s.Save(); saveErr != nil {
			log.Error().Err(saveErr).Str("path", c.Path()).Msg("no se pudo guardar la sesión")
		}
		return err
	}
}

// GetSession devuelve la sesión del request. Sin SessionMiddleware devuelve una sesión efímera.
func GetSession(c *fiber.Ctx) tenancy.Session {
	if fs, ok := c.Locals(LocalSession).(*fiberSession); ok {
		return fs
	}
	return &tenancy.MapSession{}
}

// SessionFor devuelve la sesión del request ligada al principal: una sesión de otro usuario
// pierde su empresa activa y su última IP.
func SessionFor(c *fiber.Ctx, p *tenancy.Principal) tenancy.Session {
	fs, ok := c.Locals(LocalSession).(*fiberSession)
	if !ok {
		return GetSession(c)
	}
	if p != nil && p.UserID != "" {
		fs.bindUser(p.UserID)
	}
	return fs
}

// renewSession emite un ID de sesión nuevo para el usuario que acaba de autenticarse.
func renewSession(c *fiber.Ctx, userID string) error {
	if fs, ok := c.Locals(LocalSession).(*fiberSession); ok {
		return fs.renew(userID)
	}
	return nil
}

// destroySession cierra la sesión del request si es persistente.
func destroySession(c *fiber.Ctx) error {
	if fs, ok := c.Locals(LocalSession).(*fiberSession); ok {
		return fs.destroy()
	}
	return nil
}
