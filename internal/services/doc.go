// Package services 提供应用的领域服务层：记录校验后的持久化、事务边界、级联删除与读取时的关联投影。
// 该层对 handlers 提供较为稳定的接口，避免在 HTTP 层直接操作数据访问或缓存细节。
package services
