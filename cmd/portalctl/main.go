package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trampolim2024/trampolim-portal/internal/config"
	"github.com/trampolim2024/trampolim-portal/internal/database"
	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
	"github.com/trampolim2024/trampolim-portal/internal/storage"
	"github.com/trampolim2024/trampolim-portal/pkg/logger"
)

// portal agrupa os serviços compartilhados pelos subcomandos. O estado local
// (sessão, marcador pendente) é o mesmo banco SQLite usado pelo servidor.
type portal struct {
	db         *sql.DB
	session    *session.Store
	flags      *storage.PendingFlags
	auth       integration.AuthClient
	editals    integration.EditalClient
	status     service.StatusService
	submission service.SubmissionService
}

func newPortal() (*portal, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Saída do CLI é o stdout; o log estruturado fica só para erros.
	log := logger.NewWithConfig("error", false, true)

	db, err := database.NewSQLite(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	kv := storage.NewSQLiteStore(db, log)
	sessionStore := session.New(kv, log)
	flags := storage.NewPendingFlags(kv)

	authClient := integration.NewAuthClient(cfg.Backend.URL, cfg.Backend.Timeout, log)
	editalClient := integration.NewEditalClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		cfg.Backend.RetryCount,
		cfg.Backend.RetryDelay,
		log,
	)
	projectClient := integration.NewProjectClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		cfg.Backend.RetryCount,
		cfg.Backend.RetryDelay,
		log,
	)

	statusService := service.NewStatusService(projectClient, editalClient, sessionStore, log)
	submissionService := service.NewSubmissionService(
		projectClient,
		statusService,
		sessionStore,
		flags,
		service.ConfirmPolicy{
			MaxAttempts: cfg.Confirm.MaxAttempts,
			Interval:    cfg.Confirm.Interval,
		},
		log,
	)

	return &portal{
		db:         db,
		session:    sessionStore,
		flags:      flags,
		auth:       authClient,
		editals:    editalClient,
		status:     statusService,
		submission: submissionService,
	}, nil
}

func (p *portal) Close() {
	_ = p.db.Close()
}

func main() {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Cliente de linha de comando da plataforma Trampolim",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newEditalsCmd(),
		newStatusCmd(),
		newSubmitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Autentica no backend e guarda a sessão localmente",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPortal()
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			resp, err := p.auth.Login(ctx, email, password)
			if err != nil {
				return err
			}

			if err := p.session.Save(ctx, resp.Token, resp.User); err != nil {
				return err
			}

			fmt.Printf("Autenticado como %s <%s>\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail da conta")
	cmd.Flags().StringVar(&password, "password", "", "senha da conta")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Apaga a sessão local",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPortal()
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.session.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("Sessão encerrada")
			return nil
		},
	}
}

func newEditalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "editals",
		Short: "Lista os editais e indica qual está com janela aberta",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPortal()
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			editals, err := p.editals.ListEditals(ctx)
			if err != nil {
				return err
			}

			active := p.activeID(ctx)
			for _, edital := range editals {
				marker := " "
				if edital.ID == active {
					marker = "*"
				}
				fmt.Printf("%s %s  %s  (%s a %s)\n",
					marker,
					edital.ID,
					edital.Title,
					edital.StartDate.Format("02/01/2006"),
					edital.EndDate.Format("02/01/2006"),
				)
			}
			return nil
		},
	}
}

// activeID devolve o ID do edital com janela aberta, ou vazio se não houver.
func (p *portal) activeID(ctx context.Context) string {
	edital, err := p.status.ActiveEdital(ctx)
	if err != nil || edital == nil {
		return ""
	}
	return edital.ID
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [editalID]",
		Short: "Resolve o estado da submissão no edital (ativo por padrão)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPortal()
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()

			var (
				resolution service.Resolution
				editalID   string
			)
			if len(args) == 1 {
				editalID = args[0]
				resolution = p.status.Resolve(ctx, editalID)
			} else {
				resolution = p.status.ResolveActive(ctx)
				if resolution.Edital != nil {
					editalID = resolution.Edital.ID
				}
			}

			// Leitura confirmada encerra a pendência deixada por uma
			// submissão anterior interrompida antes da confirmação.
			if editalID != "" && resolution.State == service.StateSubmitted {
				if pending, err := p.flags.IsSet(ctx, editalID); err == nil && pending {
					if err := p.flags.Clear(ctx, editalID); err != nil {
						return err
					}
				}
			}

			encoded, err := json.MarshalIndent(resolution, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		},
	}
}

func newSubmitCmd() *cobra.Command {
	var (
		editalID               string
		name                   string
		stage                  string
		description            string
		innovationDifferential string
		businessModel          string
		technologies           []string
		pitchLink              string
		pitchVideoPath         string
		leaderSpec             string
		memberSpecs            []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Valida e envia o projeto para o edital",
		RunE: func(cmd *cobra.Command, args []string) error {
			submission := &models.ProjectSubmission{
				Name:                   name,
				Stage:                  models.ProjectStage(stage),
				Description:            description,
				InnovationDifferential: innovationDifferential,
				BusinessModel:          businessModel,
				Technologies:           technologies,
				PitchLink:              pitchLink,
			}

			leader, err := parseMember(leaderSpec)
			if err != nil {
				return fmt.Errorf("invalid --leader: %w", err)
			}
			submission.Leader = *leader

			for _, spec := range memberSpecs {
				member, err := parseMember(spec)
				if err != nil {
					return fmt.Errorf("invalid --member %q: %w", spec, err)
				}
				submission.Members = append(submission.Members, *member)
			}

			if pitchVideoPath != "" {
				video, err := loadAttachment(pitchVideoPath)
				if err != nil {
					return fmt.Errorf("invalid --pitch-video: %w", err)
				}
				submission.PitchVideo = video
			}

			p, err := newPortal()
			if err != nil {
				return err
			}
			defer p.Close()

			outcome := p.submission.Submit(cmd.Context(), editalID, submission)

			switch outcome.Kind {
			case service.OutcomeRejected:
				for _, msg := range outcome.Errors {
					fmt.Println("  -", msg)
				}
				return fmt.Errorf("o formulário contém %d erro(s)", len(outcome.Errors))

			case service.OutcomeFailed:
				return fmt.Errorf("%s", outcome.Message)

			default:
				fmt.Println(outcome.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&editalID, "edital", "", "ID do edital de destino")
	cmd.Flags().StringVar(&name, "name", "", "nome do projeto")
	cmd.Flags().StringVar(&stage, "stage", "", "estágio (ideation, validation, mvp, operation, traction)")
	cmd.Flags().StringVar(&description, "description", "", "descrição do projeto")
	cmd.Flags().StringVar(&innovationDifferential, "innovation-differential", "", "diferencial de inovação")
	cmd.Flags().StringVar(&businessModel, "business-model", "", "modelo de negócio")
	cmd.Flags().StringSliceVar(&technologies, "technology", nil, "tecnologia utilizada (repetível)")
	cmd.Flags().StringVar(&pitchLink, "pitch-link", "", "URL do pitch")
	cmd.Flags().StringVar(&pitchVideoPath, "pitch-video", "", "arquivo de vídeo do pitch")
	cmd.Flags().StringVar(&leaderSpec, "leader", "", "líder no formato nome:cpf[:foto]")
	cmd.Flags().StringArrayVar(&memberSpecs, "member", nil, "integrante no formato nome:cpf[:foto] (repetível)")
	cmd.MarkFlagRequired("edital")
	cmd.MarkFlagRequired("leader")

	return cmd
}

// parseMember interpreta "nome:cpf[:caminho-da-foto]".
func parseMember(spec string) (*models.TeamMember, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("expected nome:cpf[:foto]")
	}

	member := &models.TeamMember{
		Name: strings.TrimSpace(parts[0]),
		CPF:  strings.TrimSpace(parts[1]),
	}

	if len(parts) == 3 && parts[2] != "" {
		photo, err := loadAttachment(parts[2])
		if err != nil {
			return nil, err
		}
		member.Photo = photo
	}

	return member, nil
}

func loadAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &models.Attachment{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
