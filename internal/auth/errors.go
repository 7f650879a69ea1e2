package auth

import "errors"

// Ошибки уровня пакета: проблему с токеном и кривую конфигурацию
// различают вызывающие (гейт, /auth/refresh, старт процесса). Остальные
// исходы auth-потока выражаются сразу HTTP-ответом с Msg*-константой
// (фразы совпадают с историческим поведением сервиса, поэтому на французском).
var (
	ErrInvalidCredential = errors.New("invalid or expired token")
	ErrConfiguration     = errors.New("server misconfigured")
)

const (
	MsgTokenRequired     = "Accès refusé. Token requis."
	MsgTokenInvalid      = "Token invalide ou expiré."
	MsgTokenType         = "Type de token invalide."
	MsgNotAuthenticated  = "Utilisateur non authentifié."
	MsgUserNotFound      = "Utilisateur non trouvé."
	MsgRoleNotFound      = "Le rôle est introuvable."
	MsgAccountDisabled   = "Ce compte a été désactivé."
	MsgForbidden         = "Accès refusé. Vous n'avez pas les permissions nécessaires."
	MsgBadCredentials    = "Nom d'utilisateur ou mot de passe incorrect."
	MsgUserExists        = "Cet utilisateur ou cette adresse email existe déjà."
	MsgEmailTaken        = "Cette adresse email est déjà utilisée."
	MsgWrongPassword     = "Le mot de passe actuel est incorrect."
	MsgServerConfig      = "Erreur de configuration du serveur."
	MsgUserCreated       = "Utilisateur créé avec succès"
	MsgAdminCreated      = "Administrateur créé avec succès"
	MsgProfileUpdated    = "Profil mis à jour avec succès"
	MsgPasswordChanged   = "Mot de passe modifié avec succès"
)
