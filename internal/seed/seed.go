// Package seed наполняет базу справочными данными: роли, учётка
// администратора по умолчанию и типы дыхательных упражнений.
// Все операции идемпотентны (upsert).
package seed

import (
	"context"

	"cesizen/internal/logs"
	"cesizen/internal/models"
	"cesizen/internal/repo"
)

var breathingTypes = []models.BreathingExerciseType{
	{Name: "Cohérence cardiaque", Description: "Technique de respiration régulière qui permet d'équilibrer le système nerveux autonome. Généralement pratiquée à raison de 6 respirations par minute pendant 5 minutes."},
	{Name: "Respiration 4-7-8", Description: "Méthode développée par Dr. Andrew Weil, consistant à inspirer pendant 4 secondes, retenir son souffle pendant 7 secondes, puis expirer pendant 8 secondes."},
	{Name: "Respiration carrée", Description: "Technique où l'on inspire, retient son souffle, expire et retient à nouveau son souffle pendant des durées égales. Aide à réduire le stress et améliorer la concentration."},
	{Name: "Respiration abdominale", Description: "Se concentre sur la respiration par le diaphragme en gonflant le ventre lors de l'inspiration. Efficace pour activer la réponse de relaxation du corps."},
	{Name: "Respiration alternée par les narines", Description: "Technique issue du yoga (Nadi Shodhana) qui consiste à alterner la respiration entre la narine gauche et droite."},
	{Name: "Respiration progressive", Description: "Commence par des respirations courtes puis augmente progressivement la durée des inspirations et expirations."},
	{Name: "Respiration 5-5-5", Description: "Consiste à inspirer pendant 5 secondes, retenir pendant 5 secondes et expirer pendant 5 secondes."},
	{Name: "Respiration profonde", Description: "Technique simple consistant à prendre des inspirations lentes et profondes, suivies d'expirations complètes."},
	{Name: "Respiration apaisante", Description: "Inspiration normale suivie d'une expiration deux fois plus longue. Active le système parasympathique et favorise la détente."},
	{Name: "Respiration énergisante", Description: "Inspirations rapides et courtes suivies d'expirations longues et contrôlées. Aide à augmenter l'énergie et la vigilance."},
}

type AdminDefaults struct {
	Username string
	Email    string
	Password string
}

// Run засевает роли, админа и типы упражнений.
func Run(ctx context.Context, users *repo.UserStore, roles *repo.RoleStore,
	types *repo.BreathingTypeStore, admin AdminDefaults) error {

	adminRole, err := roles.Upsert(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := roles.Upsert(ctx, models.RoleUser); err != nil {
		return err
	}

	exists, err := users.Exists(ctx, admin.Username, admin.Email)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := users.Create(ctx, repo.CreateUserInput{
			UserName: admin.Username,
			Email:    admin.Email,
			Password: admin.Password,
			RoleID:   adminRole.ID,
		}); err != nil {
			return err
		}
		logs.Logger.Infof("seed: admin user %q created", admin.Username)
	}

	for _, t := range breathingTypes {
		if err := types.UpsertByName(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
