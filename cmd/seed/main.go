package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"hopefoundation_backend/internals/configs"
	database "hopefoundation_backend/internals/databases"
	"hopefoundation_backend/internals/seeds"
)

type rootOptions struct {
	Migrate bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Isi database Hope Foundation dengan data awal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configs.LoadEnv()
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.Migrate, "migrate", true, "jalankan AutoMigrate sebelum seeding")

	steps := []struct {
		use, short string
		run        func(*seeds.Seeder, context.Context) error
	}{
		{"all", "Semua seeder berurutan", (*seeds.Seeder).RunAll},
		{"staff", "Akun admin dan staff default", (*seeds.Seeder).SeedStaff},
		{"institutions", "Institusi mitra beserta alokasinya", (*seeds.Seeder).SeedInstitutions},
		{"ratios", "Rasio pemanfaatan 50/30/20", (*seeds.Seeder).SeedRatios},
		{"ledger", "Contoh donasi dan pencairan", (*seeds.Seeder).SeedLedger},
	}
	for _, st := range steps {
		run := st.run
		cmd.AddCommand(&cobra.Command{
			Use:          st.use,
			Short:        st.short,
			Args:         cobra.NoArgs,
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				db := configs.InitSeederDB()
				if opts.Migrate {
					if err := database.Migrate(db); err != nil {
						return err
					}
				}
				return run(seeds.NewSeeder(db), cmd.Context())
			},
		})
	}
	return cmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Printf("❌ Seeding gagal: %v", err)
		os.Exit(1)
	}
}
