package tenancy

// Session estado por usuario entre requests que usa la resolución de empresa.
// La implementación HTTP vive en interfaces/http.
type Session interface {
	ActiveCompanyID() string
	SetActiveCompanyID(id string)
	ClearActiveCompanyID()
	LastIP() string
	SetLastIP(ip string)
}

// MapSession sesión en memoria (herramientas y tests).
type MapSession struct {
	CompanyID string
	IP        string
}

func (s *MapSession) ActiveCompanyID() string      { return s.CompanyID }
func (s *MapSession) SetActiveCompanyID(id string) { s.CompanyID = id }
func (s *MapSession) ClearActiveCompanyID()        { s.CompanyID = "" }
func (s *MapSession) LastIP() string               { return s.IP }
func (s *MapSession) SetLastIP(ip string)          { s.IP = ip }
