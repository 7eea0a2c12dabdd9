package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbtyping/go-typingtips/hub"
	"github.com/bbtyping/go-typingtips/internal/config"
	"github.com/bbtyping/go-typingtips/store"
	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/bbtyping/go-typingtips/tips/segment"
	"github.com/bbtyping/go-typingtips/tips/tipjson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:          "typingtips",
		Short:        "Input-method code hints for typing practice",
		Long:         `Shows a piece of text grouped into words with their input-method codes, and the code to type next.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/typingtips/config.yaml)")
	root.PersistentFlags().String("base-url", "", "typing tips service base URL")
	root.PersistentFlags().String("cache-dir", "", "directory of the tip stream disk cache")
	root.PersistentFlags().String("store", "", "file keeping the last-used text")
	_ = a.v.BindPFlag("service.base_url", root.PersistentFlags().Lookup("base-url"))
	_ = a.v.BindPFlag("cache.dir", root.PersistentFlags().Lookup("cache-dir"))
	_ = a.v.BindPFlag("store.path", root.PersistentFlags().Lookup("store"))

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		a.newShowCmd(),
		a.newHintCmd(),
		a.newFetchCmd(),
		a.newDescribeCmd(),
		a.newTypeCmd(),
	)
	return root
}

func (a *app) initConfig() error {
	config.SetDefaults(a.v)
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".config", "typingtips"))
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return errors.Wrapf(err, "failed to read config")
		}
	} else {
		klog.V(1).Infof("using config file %q", a.v.ConfigFileUsed())
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) client() *hub.Client {
	return a.cfg.NewClient()
}

func (a *app) store() *store.Store {
	return store.New(a.cfg.Store.Path)
}

// source selects where the tip stream comes from: a local file, the text given as argument, or the
// last-used text.
type source struct {
	file string
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "read the tip stream from a local JSON file instead of fetching it")
}

// tokens loads the tip stream. Text given as argument is saved as the last-used text.
func (a *app) tokens(ctx context.Context, src *source, args []string) ([]api.Token, error) {
	if src.file != "" {
		stream, err := tipjson.NewFromFile(src.file)
		if err != nil {
			return nil, err
		}
		if !stream.OK() {
			return nil, &hub.ServiceError{Code: stream.Code, Message: stream.Message}
		}
		if err := segment.Validate(stream.Result); err != nil {
			return nil, errors.WithMessagef(err, "in file %q", src.file)
		}
		return stream.Result, nil
	}

	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
		if err := a.store().Write(ctx, text); err != nil {
			klog.Warningf("failed to save last-used text: %+v", err)
		}
	} else {
		var err error
		text, err = a.store().Read()
		if err != nil {
			return nil, err
		}
	}
	return a.client().Fetch(ctx, text)
}
