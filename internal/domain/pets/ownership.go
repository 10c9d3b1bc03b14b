package pets

import "context"

// OwnerOf expone el clientID dueño de una mascota.
// Lo usan los handlers de otros módulos para autorizar a clientes.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.ClientID, nil
}
