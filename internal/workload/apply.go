package workload

import (
	"context"
	"fmt"
	"io"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
)

// clusterScopedKinds are the supported kinds that live outside any
// namespace. Creating them through a namespaced resource client would
// target a request path the API server does not serve.
var clusterScopedKinds = map[string]bool{
	"Namespace":          true,
	"ClusterRole":        true,
	"ClusterRoleBinding": true,
}

// Apply creates every object in a multi-document YAML manifest. Objects
// that already exist are left alone so repeated deploys stay idempotent.
// Each create runs inside the 401 retry envelope.
func (c *Client) Apply(ctx context.Context, manifest []byte) error {
	decoder := yaml.NewYAMLOrJSONDecoder(strings.NewReader(string(manifest)), 4096)

	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to decode manifest: %w", err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		gvk := obj.GroupVersionKind()
		gvr := schema.GroupVersionResource{
			Group:    gvk.Group,
			Version:  gvk.Version,
			Resource: resourceForKind(gvk.Kind),
		}

		var target dynamic.ResourceInterface = c.dyn().Resource(gvr)
		if !clusterScopedKinds[gvk.Kind] {
			namespace := obj.GetNamespace()
			if namespace == "" {
				namespace = "default"
			}
			target = c.dyn().Resource(gvr).Namespace(namespace)
		}

		err := c.withAuthRetry(ctx, func() error {
			_, createErr := target.Create(ctx, &obj, metav1.CreateOptions{})
			return createErr
		})
		if err != nil && !apierrors.IsAlreadyExists(err) {
			return fmt.Errorf("failed to create %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}
	}
	return nil
}

// resourceForKind maps a kind to its collection resource name for the
// object kinds manifests here are expected to carry.
func resourceForKind(kind string) string {
	switch kind {
	case "Deployment":
		return "deployments"
	case "Service":
		return "services"
	case "ConfigMap":
		return "configmaps"
	case "Secret":
		return "secrets"
	case "DaemonSet":
		return "daemonsets"
	case "StatefulSet":
		return "statefulsets"
	case "ServiceAccount":
		return "serviceaccounts"
	case "Namespace":
		return "namespaces"
	case "Role":
		return "roles"
	case "RoleBinding":
		return "rolebindings"
	case "ClusterRole":
		return "clusterroles"
	case "ClusterRoleBinding":
		return "clusterrolebindings"
	case "Pod":
		return "pods"
	default:
		return strings.ToLower(kind) + "s"
	}
}
