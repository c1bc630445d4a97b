package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/infrastructure/mqtt"
	"github.com/nerrad567/impt/internal/platform"
)

// Event actions recorded for mutations.
const (
	actionCreated    = "created"
	actionDeleted    = "deleted"
	actionRenamed    = "renamed"
	actionAssigned   = "assigned"
	actionUnassigned = "unassigned"
	actionRestarted  = "restarted"
	actionDeployed   = "deployed"
	actionOnline     = "online"
	actionOffline    = "offline"
)

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// forceParam reports whether ?force=true was passed.
func forceParam(r *http.Request) bool {
	force, _ := strconv.ParseBool(r.URL.Query().Get(platform.ParamForce)) //nolint:errcheck // absent or invalid means false
	return force
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req platform.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := callerFrom(r.Context())
	product, err := s.fleet.CreateProduct(r.Context(), caller.ID, req.Name, req.Description)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionCreated, string(entity.TypeProduct), product.ID, product.Name)
	writeJSON(w, http.StatusCreated, platform.ResourceDocument{Data: platform.NewResource(*product)})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.fleet.DeleteProduct(r.Context(), id, forceParam(r)); err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionDeleted, string(entity.TypeProduct), id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateDeviceGroup(w http.ResponseWriter, r *http.Request) {
	var req platform.CreateDeviceGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeBadRequest(w, "product_id is required")
		return
	}

	group, err := s.fleet.CreateDeviceGroup(r.Context(), req.ProductID, req.Name, req.Type, req.Description)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionCreated, string(entity.TypeDeviceGroup), group.ID, group.Name)
	writeJSON(w, http.StatusCreated, platform.ResourceDocument{Data: platform.NewResource(*group)})
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var req platform.DeployRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	groupID := chi.URLParam(r, "id")
	build, err := s.fleet.Deploy(r.Context(), groupID, req.SHA, req.Description)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionDeployed, string(entity.TypeDeviceGroup), groupID, build.ID)
	writeJSON(w, http.StatusCreated, platform.BuildDocument{Data: build})
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req platform.UpdateDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := s.fleet.RenameDevice(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionRenamed, string(entity.TypeDevice), device.ID, device.Name)
	writeJSON(w, http.StatusOK, platform.ResourceDocument{Data: platform.NewResource(*device)})
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.fleet.DeleteDevice(r.Context(), id, forceParam(r)); err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionDeleted, string(entity.TypeDevice), id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignDevice(w http.ResponseWriter, r *http.Request) {
	var req platform.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DeviceGroupID == "" {
		writeBadRequest(w, "device_group_id is required")
		return
	}

	device, err := s.fleet.AssignDevice(r.Context(), chi.URLParam(r, "id"), req.DeviceGroupID)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionAssigned, string(entity.TypeDevice), device.ID, req.DeviceGroupID)
	writeJSON(w, http.StatusOK, platform.ResourceDocument{Data: platform.NewResource(*device)})
}

func (s *Server) handleUnassignDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.fleet.UnassignDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.record(r.Context(), actionUnassigned, string(entity.TypeDevice), device.ID, "")
	writeJSON(w, http.StatusOK, platform.ResourceDocument{Data: platform.NewResource(*device)})
}

// handleRestartDevice records the restart and, when a command channel is
// configured, publishes it to the device. A failed publish is logged; the
// request still succeeds because the platform queues restarts for offline
// devices.
func (s *Server) handleRestartDevice(w http.ResponseWriter, r *http.Request) {
	var req platform.RestartRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.fleet.MarkRestarted(r.Context(), id); err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	if s.commands != nil {
		cmd := mqtt.DeviceCommand{
			Command:     mqtt.CommandRestart,
			Conditional: req.Conditional,
			RequestID:   uuid.NewString(),
			IssuedAt:    time.Now().UTC(),
		}
		if err := s.commands.PublishCommand(id, cmd); err != nil {
			s.logger.Warn("restart command not delivered", "device_id", id, "error", err)
		}
	}

	details := ""
	if req.Conditional {
		details = "conditional"
	}
	s.record(r.Context(), actionRestarted, string(entity.TypeDevice), id, details)
	w.WriteHeader(http.StatusAccepted)
}

// HandleDeviceStatus is the MQTT handler for device status topics. It
// updates the device's online flag; messages for unknown devices are
// reported as errors and otherwise ignored.
func (s *Server) HandleDeviceStatus(topic string, payload []byte) error {
	deviceID, kind, ok := s.topics.ParseDeviceTopic(topic)
	if !ok || kind != mqtt.KindStatus {
		return nil
	}

	status, err := mqtt.ParseDeviceStatus(payload)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := s.fleet.SetOnline(ctx, deviceID, status.Online); err != nil {
		return err
	}

	action := actionOffline
	if status.Online {
		action = actionOnline
	}
	s.record(ctx, action, string(entity.TypeDevice), deviceID, "")
	return nil
}
