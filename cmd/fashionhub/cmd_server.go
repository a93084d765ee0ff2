package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fashionhub/storefront/internal/kernel"
	"github.com/fashionhub/storefront/internal/server"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fashionhub/storefront/config"
)

// fashionhub serve starts the API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

// fashionhub route:list prints the registered route table.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		// A lazy (unpinged) client gives the repositories collection
		// handles without requiring a reachable database.
		client, err := mongo.Connect(cmd.Context(), options.Client().ApplyURI(config.MongoURI()))
		if err != nil {
			return err
		}
		defer client.Disconnect(cmd.Context())

		svcs := kernel.BuildServices(client.Database(config.MongoDB()))
		r := kernel.BuildRouter(svcs, nil, nil)

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Method, info.Path, info.Name)
		}
		return w.Flush()
	},
}
