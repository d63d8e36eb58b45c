/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "classvm/object"

// loadSecurityAccessController registers
// java/security/AccessController.getStackAccessControlContext, which
// returns null: this VM has no security manager (spec.md §6 Non-goals), so
// there is no access-control context to report. doPrivileged is not
// registered here.
func loadSecurityAccessController() {
	MethodSignatures["java/security/AccessController.getStackAccessControlContext()Ljava/security/AccessControlContext;"] = GMeth{0, accessControllerStackContext}
}

func accessControllerStackContext(env *Env, params []object.Value) (object.Value, error) {
	return object.Null, nil
}
