package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/oceanic/internal/domain"
	"github.com/samvad-hq/oceanic/pkg/publishers"
	"github.com/samvad-hq/oceanic/pkg/templates"
)

type createFlags struct {
	file              string
	template          string
	name              string
	region            string
	size              string
	image             string
	sshKeys           []string
	backups           bool
	ipv6              bool
	privateNetworking bool
	userData          string
}

func newCreateCommand(s *session) *cobra.Command {
	var f createFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a droplet",
		Long: "Create a droplet from a body file, a named template, field flags, or a mix.\n" +
			"Field flags override values from the file or template. Fields are sent as given;\n" +
			"the API reports missing or invalid values.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := s.createBody(cmd, f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := s.clients.Droplets.CreateDroplet(ctx, body)
			if err != nil {
				return err
			}
			if droplet, err := domain.DropletFromResult(res); err != nil {
				s.log.WarnObj("created droplet not recognised in response", "error", err)
			} else {
				s.publish(ctx, publishers.EventDropletCreated, droplet)
			}
			return s.render(res)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "create body file (YAML/JSON)")
	fl.StringVarP(&f.template, "template", "t", "", "template id from the templates file")
	fl.StringVar(&f.name, "name", "", "droplet name")
	fl.StringVar(&f.region, "region", "", "region slug")
	fl.StringVar(&f.size, "size", "", "size slug")
	fl.StringVar(&f.image, "image", "", "image slug or numeric id")
	fl.StringSliceVar(&f.sshKeys, "ssh-key", nil, "SSH key id or fingerprint (repeatable)")
	fl.BoolVar(&f.backups, "backups", false, "enable automated backups")
	fl.BoolVar(&f.ipv6, "ipv6", false, "enable IPv6")
	fl.BoolVar(&f.privateNetworking, "private-networking", false, "enable private networking")
	fl.StringVar(&f.userData, "user-data", "", "cloud-init user data")
	return cmd
}

// createBody merges the file, the template and the changed field flags, in
// that order of increasing precedence.
func (s *session) createBody(cmd *cobra.Command, f createFlags) (map[string]any, error) {
	body := map[string]any{}

	if f.file != "" {
		fileBody, err := templates.LoadBody(f.file)
		if err != nil {
			return nil, err
		}
		mergeInto(body, fileBody)
	}

	if f.template != "" {
		if s.cfg.TemplatesFile == "" {
			return nil, fmt.Errorf("--template requires a templates file (set TEMPLATES_FILE or --templates)")
		}
		reg, err := templates.Load(s.cfg.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		tmpl, ok := reg.ByID(f.template)
		if !ok {
			return nil, fmt.Errorf("unknown template %q", f.template)
		}
		mergeInto(body, tmpl.Body())
	}

	fl := cmd.Flags()
	setIfChanged := func(flag, key string, value any) {
		if fl.Changed(flag) {
			body[key] = value
		}
	}
	setIfChanged("name", "name", f.name)
	setIfChanged("region", "region", f.region)
	setIfChanged("size", "size", f.size)
	setIfChanged("image", "image", slugOrID(f.image))
	setIfChanged("backups", "backups", f.backups)
	setIfChanged("ipv6", "ipv6", f.ipv6)
	setIfChanged("private-networking", "private_networking", f.privateNetworking)
	setIfChanged("user-data", "user_data", f.userData)
	if fl.Changed("ssh-key") {
		keys := make([]any, 0, len(f.sshKeys))
		for _, k := range f.sshKeys {
			keys = append(keys, slugOrID(k))
		}
		body["ssh_keys"] = keys
	}

	return body, nil
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

// slugOrID turns numeric identifiers into integers and leaves slugs and
// fingerprints as strings.
func slugOrID(v string) any {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}
