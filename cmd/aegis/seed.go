package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/aegis/internal/config"
	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/store"
)

// defaultReasons es el catálogo global inicial de motivos de reporte.
var defaultReasons = []struct {
	name, description string
}{
	{"spam", "Contenido repetitivo o publicidad no solicitada"},
	{"harassment", "Acoso o ataques dirigidos a otra persona"},
	{"inappropriate content", "Contenido que viola las normas de la plataforma"},
	{"off topic", "Contenido fuera de lugar para el space donde se publicó"},
}

func newSeedCmd(configPath *string) *cobra.Command {
	var adminUserID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Instala el administrador global inicial y el catálogo de motivos",
		Long: "Bootstrap del motor: otorga el rol Administrator en scope global al " +
			"usuario indicado (el primer grant no puede salir de AssignRole porque " +
			"todavía no existe ningún administrador) y carga el catálogo global de " +
			"motivos de reporte. Es idempotente: re-ejecutarlo no duplica nada.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminUserID == "" {
				return fmt.Errorf("seed: --admin es obligatorio")
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return seed(cmd.Context(), cfg, adminUserID)
		},
	}
	cmd.Flags().StringVar(&adminUserID, "admin", "", "user ID que recibe el rol Administrator global")
	return cmd
}

func seed(ctx context.Context, cfg *config.Config, adminUserID string) error {
	st, err := store.Open(ctx, store.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	return seedStore(ctx, st, adminUserID)
}

func seedStore(ctx context.Context, st store.Store, adminUserID string) error {
	now := time.Now().UTC()

	grant := &domain.RoleGrant{
		ID:              uuid.NewString(),
		SubjectUserID:   adminUserID,
		RoleType:        domain.RoleAdministrator,
		Scope:           domain.GlobalScope(),
		GrantedByUserID: adminUserID,
		GrantedAt:       now,
	}
	entry := &domain.LogEntry{
		ID:                uuid.NewString(),
		Action:            domain.ActionRoleAssigned,
		ActorUserID:       adminUserID,
		Scope:             domain.GlobalScope(),
		TargetDescription: "user:" + adminUserID + " role:" + string(domain.RoleAdministrator),
		CreatedAt:         now,
	}
	switch err := st.Roles().Create(ctx, grant, entry); {
	case err == nil:
		log.Printf("administrator global otorgado a %s", adminUserID)
	case errors.Is(err, repository.ErrConflict):
		log.Printf("%s ya es administrator global, nada que hacer", adminUserID)
	default:
		return fmt.Errorf("seed admin: %w", err)
	}

	for _, re := range defaultReasons {
		err := st.ReportReasons().Create(ctx, &domain.ReportReason{
			ID:          uuid.NewString(),
			Name:        re.name,
			Description: re.description,
		})
		switch {
		case err == nil:
			log.Printf("motivo %q creado", re.name)
		case errors.Is(err, repository.ErrConflict):
			log.Printf("motivo %q ya existe", re.name)
		default:
			return fmt.Errorf("seed reason %q: %w", re.name, err)
		}
	}

	log.Println("Seed completado.")
	return nil
}
