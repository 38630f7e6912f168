package dto

type CrearSesionRequest struct {
	Nombre string `json:"nombre" validate:"omitempty,max=120"`
}

type SesionResponse struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Usuario        string  `json:"usuario"`
	Estado         string  `json:"estado"`
	TotalRegistros int     `json:"total_registros"`
	CreatedAt      string  `json:"created_at"`
	FinalizadaAt   *string `json:"finalizada_at,omitempty"`
	RevisadaAt     *string `json:"revisada_at,omitempty"`
}

// SesionActivaResponse is the resume-or-create result: the session plus
// its persisted ledger loaded into local state.
type SesionActivaResponse struct {
	Sesion SesionResponse  `json:"sesion"`
	Lineas []LineaBitacora `json:"lineas"`
}

type FinalizarSesionResponse struct {
	Finalizada SesionResponse `json:"finalizada"`
	// NuevaSesion is auto-created so the operator can keep working.
	NuevaSesion SesionResponse `json:"nueva_sesion"`
}
