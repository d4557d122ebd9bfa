package deploy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kurosci/rzen/internal/service"
)

// HostStatus describes what is currently deployed on the target host.
type HostStatus struct {
	// ServiceActive reports whether the unit is in the "active" state.
	ServiceActive bool

	// ServiceState is the raw `systemctl is-active` output, "unknown" when
	// the host is unreachable.
	ServiceState string

	// LastDeployment is the unit file modification time, if readable.
	LastDeployment time.Time

	// BinaryInfo is a short size/mtime summary of the live binary.
	BinaryInfo string
}

// Status queries the remote host for the deployed service state, the unit
// file age, and the live binary summary. An unreachable host yields a
// zero-valued status rather than an error so callers can render "down".
func (p *Pipeline) Status(ctx context.Context, desc Descriptor) (*HostStatus, error) {
	client, err := p.connect(ctx, p.endpoint(), connectAttempts)
	if err != nil {
		return &HostStatus{ServiceState: "unknown"}, nil
	}
	defer client.Close()

	status := &HostStatus{}
	status.ServiceState = service.NewManager(client).State(desc.ServiceName)
	status.ServiceActive = status.ServiceState == "active"

	unitPath := "/etc/systemd/system/" + desc.ServiceName
	if out, _, err := client.Run("stat -c %Y " + unitPath); err == nil {
		if ts, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64); err == nil {
			status.LastDeployment = time.Unix(ts, 0).UTC()
		}
	}

	if out, _, err := client.Run("ls -lh " + desc.RemotePath()); err == nil {
		fields := strings.Fields(out)
		if len(fields) >= 6 {
			status.BinaryInfo = fmt.Sprintf("Size: %s, Modified: %s", fields[4], fields[5])
		}
	}

	return status, nil
}
